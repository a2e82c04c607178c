package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finance-tracker-go/internal/domain/export"
	"finance-tracker-go/pkg/logger"
)

func (h *Handlers) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	report, err := h.Analytics.MonthlyReport(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "reports.monthly", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// CompareReports compares month "a" against month "b", both as 2006-01.
func (h *Handlers) CompareReports(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	a, err := parseMonthPeriod(query.Get("a"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	b, err := parseMonthPeriod(query.Get("b"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Analytics.Compare(r.Context(), user.ID, a, b)
	if err != nil {
		h.writeServiceError(w, r, "reports.compare", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// VerifyTotals recomputes the month's totals both in the store and row by row. A drift
// is reported as an internal error.
func (h *Handlers) VerifyTotals(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summary, err := h.Analytics.VerifyTotals(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "reports.totals", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unsupported export format")
		return
	}

	params, err := parseFilterParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	file, err := h.Exporter.Export(r.Context(), user.ID, params, format)
	if err != nil {
		h.writeServiceError(w, r, "reports.export", err, "format", format)
		return
	}

	logger.FromContext(r.Context(), h.log).Info("reports.export: exported", "format", format, "bytes", len(file.Data))
	writeFile(w, file.Name, file.ContentType, file.Data)
}
