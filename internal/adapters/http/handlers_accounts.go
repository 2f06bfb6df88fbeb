package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/application"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "list_accounts", domain.ErrUnauthenticated)
		return
	}

	query := application.ListAccountsQuery{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
	}
	items, err := h.service.ListAccounts(r.Context(), principal, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_accounts", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"accounts": items})
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "create_account", domain.ErrUnauthenticated)
		return
	}

	var req application.CreateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_account", err)
		return
	}

	item, err := h.service.CreateAccount(r.Context(), principal, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_account", err)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "update_account", domain.ErrUnauthenticated)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid account_id")
		return
	}

	var req application.UpdateAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_account", err)
		return
	}

	item, err := h.service.UpdateAccount(r.Context(), principal, accountID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_account", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "delete_account", domain.ErrUnauthenticated)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid account_id")
		return
	}

	res, err := h.service.DeleteAccount(r.Context(), principal, accountID)
	if err != nil {
		writeMappedError(r.Context(), w, "delete_account", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
