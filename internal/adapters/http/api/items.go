package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/nutrilookup/internal/domain/model"
)

// maxItemBodyBytes bounds POST /api/items payloads.
const maxItemBodyBytes = 1 << 20

// ItemDependencies defines the food item operations.
type ItemDependencies interface {
	Items(ctx context.Context, countryID, branchID string) ([]model.NutritionFacts, error)
	Item(ctx context.Context, id string) (model.FoodItem, error)
	CreateItem(ctx context.Context, in model.NewFoodItem) (uint64, error)
	DeleteItem(ctx context.Context, id string) error
}

// ItemsHandler handles food item requests.
type ItemsHandler struct {
	deps ItemDependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemDependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

// HandleListItems handles GET /api/items?country_id=N&branch_id=M requests.
func (h *ItemsHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.deps.Items(r.Context(), q.Get("country_id"), q.Get("branch_id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetItem handles GET /api/item?id=N requests.
func (h *ItemsHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.deps.Item(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleCreateItem handles POST /api/items requests.
func (h *ItemsHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in model.NewFoodItem
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", msgInvalidBody)
		return
	}
	id, err := h.deps.CreateItem(r.Context(), in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// HandleDeleteItem handles DELETE /api/items/{id} requests. A missing id is
// still a success.
func (h *ItemsHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
