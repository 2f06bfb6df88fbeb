package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across
// endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.login)

		r.Group(func(r chi.Router) {
			r.Use(handler.sessionMiddleware)

			r.Post("/auth/logout", handler.logout)
			r.Get("/auth/session", handler.currentSession)
			r.Get("/login-attempts", handler.listLoginAttempts)

			r.Get("/accounts", handler.listAccounts)
			r.Post("/accounts", handler.createAccount)
			r.Patch("/accounts/{account_id}", handler.updateAccount)
			r.Delete("/accounts/{account_id}", handler.deleteAccount)

			r.Get("/records/today", handler.submissionStatusToday)
			r.Get("/records/mine", handler.listMyRecords)
			r.Post("/records", handler.submitRecord)
			r.Get("/records", handler.listAllRecords)
		})
	})

	return r
}
