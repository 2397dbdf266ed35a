package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// DeliveriesHandler handles logistics endpoints.
type DeliveriesHandler struct {
	DB *sql.DB
}

// List handles GET /api/deliveries.
func (h *DeliveriesHandler) List(w http.ResponseWriter, r *http.Request) {
	deliveries, err := store.ListDeliveries(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}
	if deliveries == nil {
		deliveries = []model.Delivery{}
	}
	jsonResponse(w, http.StatusOK, deliveries)
}

// Create handles POST /api/deliveries.
func (h *DeliveriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req store.CreateDeliveryInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FromLocation == "" || req.ToLocation == "" || req.BatchNumber == "" {
		jsonError(w, http.StatusBadRequest, "locations and batch number required")
		return
	}
	if req.ScheduledDate.IsZero() {
		jsonError(w, http.StatusBadRequest, "scheduled date required")
		return
	}

	delivery, err := store.CreateDelivery(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("delivery scheduled", "tracking", delivery.TrackingNumber, "batch", delivery.BatchNumber)
	jsonResponse(w, http.StatusCreated, delivery)
}

type updateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/deliveries/{id}/status.
func (h *DeliveriesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req updateDeliveryStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidDeliveryStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid delivery status")
		return
	}

	existing, err := store.GetDelivery(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "delivery not found")
		return
	}

	delivery, err := store.UpdateDeliveryStatus(r.Context(), h.DB, id, req.Status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update delivery")
		return
	}

	slog.Info("delivery status updated", "id", id, "status", req.Status)
	jsonResponse(w, http.StatusOK, delivery)
}
