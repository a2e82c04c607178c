package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"finance-tracker-go/internal/domain/ledger"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type categoryResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      ledger.Kind `json:"type"`
	Color     string      `json:"color"`
	Icon      string      `json:"icon"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	kind, err := parseKindParam(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid type")
		return
	}

	categories, err := h.Categories.List(r.Context(), user.ID, kind)
	if err != nil {
		h.writeServiceError(w, r, "categories.list", err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, toCategoryResponse(category))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	category, err := h.Categories.Get(r.Context(), user.ID, id)
	if err != nil {
		h.writeServiceError(w, r, "categories.get", err, "category_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(*category))
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	input, err := toCategoryInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := h.Categories.Create(r.Context(), user.ID, input)
	if err != nil {
		h.writeServiceError(w, r, "categories.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(*created))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
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

	input, err := toCategoryInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Categories.Update(r.Context(), user.ID, id, input)
	if err != nil {
		h.writeServiceError(w, r, "categories.update", err, "category_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(*updated))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Categories.Delete(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, r, "categories.delete", err, "category_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCategoryInput(req categoryRequest) (ledger.CategoryInput, error) {
	kind, err := ledger.ParseKind(req.Type)
	if err != nil {
		return ledger.CategoryInput{}, err
	}
	return ledger.CategoryInput{
		Name:  req.Name,
		Kind:  kind,
		Color: req.Color,
		Icon:  req.Icon,
	}, nil
}

func toCategoryResponse(category ledger.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Type:      category.Kind,
		Color:     category.Color,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
	}
}
