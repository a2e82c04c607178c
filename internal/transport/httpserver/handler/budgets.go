package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/budget"
)

type budgetRequest struct {
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

type budgetResponse struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName"`
	CategoryColor string          `json:"categoryColor"`
	Amount        decimal.Decimal `json:"amount"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	budgets, err := h.Budgets.List(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "budgets.list", err)
		return
	}

	response := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		response = append(response, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	month, year, err := parseMonthYear(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	statuses, err := h.Budgets.Status(r.Context(), user.ID, month, year)
	if err != nil {
		h.writeServiceError(w, r, "budgets.status", err)
		return
	}
	if statuses == nil {
		statuses = []budget.Status{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	created, err := h.Budgets.Create(r.Context(), user.ID, toBudgetInput(req))
	if err != nil {
		h.writeServiceError(w, r, "budgets.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetResponse(*created))
}

func (h *Handlers) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	updated, err := h.Budgets.Update(r.Context(), user.ID, id, toBudgetInput(req))
	if err != nil {
		h.writeServiceError(w, r, "budgets.update", err, "budget_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(*updated))
}

func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Budgets.Delete(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, r, "budgets.delete", err, "budget_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toBudgetInput(req budgetRequest) budget.Input {
	return budget.Input{
		CategoryID: strings.TrimSpace(req.CategoryID),
		Amount:     req.Amount,
		Month:      req.Month,
		Year:       req.Year,
	}
}

func toBudgetResponse(b budget.Budget) budgetResponse {
	return budgetResponse{
		ID:            b.ID,
		CategoryID:    b.CategoryID,
		CategoryName:  b.Category.Name,
		CategoryColor: b.Category.Color,
		Amount:        b.Amount,
		Month:         b.Month,
		Year:          b.Year,
	}
}
