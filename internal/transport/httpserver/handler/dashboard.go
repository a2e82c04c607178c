package handler

import (
	"net/http"
	"strings"
	"time"

	"finance-tracker-go/internal/domain/analytics"
)

func (h *Handlers) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summary, err := h.Analytics.DashboardSummary(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "dashboard.summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) CategoryChart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	chart, err := h.Analytics.CategoryChart(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "dashboard.category_chart", err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *Handlers) DailyChart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	chart, err := h.Analytics.DailyChart(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "dashboard.daily_chart", err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *Handlers) CategorySummary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	totals, err := h.Analytics.CategorySummary(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "dashboard.category_summary", err)
		return
	}
	if totals == nil {
		totals = []analytics.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

type balanceResponse struct {
	At      time.Time `json:"at"`
	Balance string    `json:"balance"`
}

// Balance returns the cumulative balance at the "at" query parameter, or now.
func (h *Handlers) Balance(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	at := time.Now().In(h.loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("at")); raw != "" {
		parsed, err := parseDateTime(raw, h.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid at")
			return
		}
		at = parsed
	}

	balance, err := h.Analytics.CumulativeBalanceAt(r.Context(), user.ID, at)
	if err != nil {
		h.writeServiceError(w, r, "dashboard.balance", err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{At: at, Balance: balance.StringFixed(2)})
}
