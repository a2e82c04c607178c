package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/transport/httpserver/middleware"
	"finance-tracker-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeFile(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// currentUser writes 401 and returns false when the request carries no caller.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
	}
	return user, ok
}

// writeServiceError maps domain failures to the error envelope. Expected failures are
// logged as business errors, everything else as internal.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := logger.FromContext(r.Context(), h.log)
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.InternalError(op+": failed", err, args...)
		writeError(w, status, code, "internal error")
		return
	}
	log.BusinessError(op+": rejected", err, args...)
	writeError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrCategoryNotFound):
		return http.StatusNotFound, "category_not_found"
	case errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound, "transaction_not_found"
	case errors.Is(err, ledger.ErrBudgetNotFound):
		return http.StatusNotFound, "budget_not_found"
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ledger.ErrDuplicateCategory):
		return http.StatusConflict, "duplicate_category"
	case errors.Is(err, ledger.ErrDuplicateBudget):
		return http.StatusConflict, "duplicate_budget"
	case errors.Is(err, ledger.ErrCategoryInUse):
		return http.StatusConflict, "category_in_use"
	case errors.Is(err, ledger.ErrKindMismatch):
		return http.StatusBadRequest, "kind_mismatch"
	case errors.Is(err, ledger.ErrInvalidPeriod):
		return http.StatusBadRequest, "invalid_period"
	case errors.Is(err, ledger.ErrMalformedInput):
		return http.StatusBadRequest, "malformed_file"
	case errors.Is(err, ledger.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
