package http

import (
	"context"
	"net/http"

	"github.com/rollcallhq/rollcall-service/internal/application"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

// Handler is the HTTP adapter entrypoint for the service use-cases.
// Keeping only the application dependency here preserves clean adapter
// boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

// sessionMiddleware resolves the presented token into a Principal and stashes
// it on the request context. Handlers always pass the principal to the
// application layer explicitly; nothing downstream reads ambient identity.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := sessionTokenFromRequest(r)
		if err != nil {
			writeMappedError(r.Context(), w, "session_resolve", domain.ErrUnauthenticated)
			return
		}

		principal, err := h.service.ResolveSession(r.Context(), token)
		if err != nil {
			writeMappedError(r.Context(), w, "session_resolve", err)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxKeyTokenRaw, token)
		ctx = context.WithValue(ctx, ctxKeyPrincipal, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFromContext(ctx context.Context) (domain.Principal, bool) {
	v := ctx.Value(ctxKeyPrincipal)
	principal, ok := v.(domain.Principal)
	return principal, ok
}

func tokenFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ctxKeyTokenRaw)
	token, ok := v.(string)
	return token, ok
}
