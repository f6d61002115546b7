package api

import (
	"context"
	"net/http"

	"github.com/okian/nutrilookup/internal/domain/model"
)

// CatalogDependencies defines the read operations over countries and branches.
type CatalogDependencies interface {
	Countries(ctx context.Context) ([]model.Country, error)
	Branches(ctx context.Context, countryID string) ([]model.Branch, error)
}

// CatalogHandler handles country and branch listing.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCountries handles GET /api/countries requests.
func (h *CatalogHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.deps.Countries(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

// HandleBranches handles GET /api/branches?country_id=N requests.
func (h *CatalogHandler) HandleBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.deps.Branches(r.Context(), r.URL.Query().Get("country_id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}
