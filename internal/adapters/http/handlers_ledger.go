package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rollcallhq/rollcall-service/internal/application"
	"github.com/rollcallhq/rollcall-service/internal/domain"
)

func (h *Handler) submissionStatusToday(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "submission_status", domain.ErrUnauthenticated)
		return
	}

	status, err := h.service.SubmissionStatusToday(r.Context(), principal)
	if err != nil {
		writeMappedError(r.Context(), w, "submission_status", err)
		return
	}
	writeSuccess(w, http.StatusOK, status)
}

// submitRecord forwards the raw JSON object so the application layer can
// detect client-supplied identity fields no matter what value they carry.
func (h *Handler) submitRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "submit_record", domain.ErrUnauthenticated)
		return
	}

	var payload map[string]any
	if err := decodeBody(r, &payload); err != nil {
		writeValidationError(r.Context(), w, "submit_record", err)
		return
	}

	item, err := h.service.SubmitRecord(r.Context(), principal, payload)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_record", err)
		return
	}
	writeSuccess(w, http.StatusCreated, item)
}

func (h *Handler) listMyRecords(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "list_my_records", domain.ErrUnauthenticated)
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
	items, err := h.service.ListMyRecords(r.Context(), principal, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_my_records", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"records": items})
}

func (h *Handler) listAllRecords(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeMappedError(r.Context(), w, "list_all_records", domain.ErrUnauthenticated)
		return
	}

	query := application.ListRecordsQuery{
		FromDate: r.URL.Query().Get("from"),
		ToDate:   r.URL.Query().Get("to"),
		Limit:    parseIntDefault(r.URL.Query().Get("limit"), 50),
		Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
	}
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid account_id")
			return
		}
		query.AccountID = &accountID
	}

	items, err := h.service.ListAllRecords(r.Context(), principal, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_all_records", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"records": items})
}
