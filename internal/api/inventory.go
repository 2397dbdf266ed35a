package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// InventoryHandler handles stock level endpoints.
type InventoryHandler struct {
	DB *sql.DB
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location != "" && !model.ValidLocation(location) {
		jsonError(w, http.StatusBadRequest, "invalid location")
		return
	}

	items, err := store.ListInventory(r.Context(), h.DB, location)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}
	if items == nil {
		items = []model.Inventory{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /api/inventory/search.
func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		jsonError(w, http.StatusBadRequest, "search term required")
		return
	}

	items, err := store.SearchInventory(r.Context(), h.DB, term)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search inventory")
		return
	}
	if items == nil {
		items = []model.Inventory{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Upsert handles POST /api/inventory.
func (h *InventoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.Inventory
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BatchNumber == "" || req.DrugName == "" || req.LocationName == "" {
		jsonError(w, http.StatusBadRequest, "batch number, drug name, and location name required")
		return
	}

	item, err := store.UpsertInventory(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

type adjustInventoryRequest struct {
	Quantity         int `json:"quantity"`
	ReservedQuantity int `json:"reserved_quantity"`
}

// Adjust handles PUT /api/inventory/{id}.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req adjustInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.AdjustInventory(r.Context(), h.DB, id, req.Quantity, req.ReservedQuantity); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "inventory updated"})
}
