package http

import (
	"net/http"

	"github.com/rollcallhq/rollcall-service/internal/application"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	req.IPAddress = readIP(r)
	req.UserAgent = r.UserAgent()

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "logout", domain.ErrUnauthenticated)
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "current_session", domain.ErrUnauthenticated)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"principal": application.PrincipalView{
			AccountID:    principal.AccountID,
			Role:         string(principal.Role),
			IsSuperAdmin: principal.IsSuperAdmin,
		},
	})
}

func (h *Handler) listLoginAttempts(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "list_login_attempts", domain.ErrUnauthenticated)
		return
	}

	query := application.LoginAttemptQuery{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		Days:   parseIntDefault(r.URL.Query().Get("days"), 0),
		Status: r.URL.Query().Get("status"),
	}
	items, err := h.service.ListLoginAttempts(r.Context(), principal, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_login_attempts", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"attempts": items})
}
