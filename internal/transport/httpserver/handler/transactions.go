package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
)

type transactionRequest struct {
	CategoryID      string          `json:"categoryId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate string          `json:"transactionDate"`
	Note            string          `json:"note"`
}

type transactionResponse struct {
	ID              string           `json:"id"`
	CategoryID      string           `json:"categoryId"`
	CategoryName    string           `json:"categoryName"`
	CategoryColor   string           `json:"categoryColor"`
	CategoryIcon    string           `json:"categoryIcon"`
	Type            ledger.Kind      `json:"type"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionDate time.Time        `json:"transactionDate"`
	Note            string           `json:"note"`
	RunningBalance  *decimal.Decimal `json:"runningBalance,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type transactionPageResponse struct {
	Items      []transactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Size       int                   `json:"size"`
	TotalPages int                   `json:"totalPages"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	params, err := parseFilterParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	page, err := h.Transactions.List(r.Context(), user.ID, params)
	if err != nil {
		h.writeServiceError(w, r, "transactions.list", err)
		return
	}

	items := make([]transactionResponse, 0, len(page.Items))
	for _, item := range page.Items {
		response := toTransactionResponse(item.Transaction)
		balance := item.RunningBalance
		response.RunningBalance = &balance
		items = append(items, response)
	}

	writeJSON(w, http.StatusOK, transactionPageResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages,
	})
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	tx, err := h.Transactions.Get(r.Context(), user.ID, id)
	if err != nil {
		h.writeServiceError(w, r, "transactions.get", err, "transaction_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*tx))
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	input, err := h.toTransactionInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := h.Transactions.Create(r.Context(), user.ID, input)
	if err != nil {
		h.writeServiceError(w, r, "transactions.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(*created))
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
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

	input, err := h.toTransactionInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Transactions.Update(r.Context(), user.ID, id, input)
	if err != nil {
		h.writeServiceError(w, r, "transactions.update", err, "transaction_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Transactions.Delete(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, r, "transactions.delete", err, "transaction_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toTransactionInput(req transactionRequest) (ledger.TransactionInput, error) {
	kind, err := ledger.ParseKind(req.Type)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	occurredAt, err := parseDateTime(req.TransactionDate, h.loc)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	return ledger.TransactionInput{
		CategoryID: strings.TrimSpace(req.CategoryID),
		Kind:       kind,
		Amount:     req.Amount,
		OccurredAt: occurredAt,
		Note:       req.Note,
	}, nil
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:              tx.ID,
		CategoryID:      tx.CategoryID,
		CategoryName:    tx.Category.Name,
		CategoryColor:   tx.Category.Color,
		CategoryIcon:    tx.Category.Icon,
		Type:            tx.Kind,
		Amount:          tx.Amount,
		TransactionDate: tx.OccurredAt,
		Note:            tx.Note,
		CreatedAt:       tx.CreatedAt,
		UpdatedAt:       tx.UpdatedAt,
	}
}
