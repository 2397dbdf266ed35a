package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// OrdersHandler handles customer order endpoints.
type OrdersHandler struct {
	DB *sql.DB
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := store.ListOrders(r.Context(), h.DB,
		r.URL.Query().Get("customer_email"), r.URL.Query().Get("pharmacy"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	jsonResponse(w, http.StatusOK, orders)
}

// Create handles POST /api/orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req store.CreateOrderInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CustomerName == "" || req.Pharmacy == "" || req.BatchNumber == "" {
		jsonError(w, http.StatusBadRequest, "customer name, pharmacy, and batch number required")
		return
	}
	if req.Quantity <= 0 {
		jsonError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	order, err := store.CreateOrder(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	slog.Info("order created", "order", order.OrderNumber, "pharmacy", order.Pharmacy)
	jsonResponse(w, http.StatusCreated, order)
}

// Get handles GET /api/orders/{number}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := store.GetOrder(r.Context(), h.DB, r.PathValue("number"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if order == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}
	jsonResponse(w, http.StatusOK, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PUT /api/orders/{number}/status.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.ValidOrderStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	number := r.PathValue("number")
	existing, err := store.GetOrder(r.Context(), h.DB, number)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}

	order, err := store.UpdateOrderStatus(r.Context(), h.DB, number, req.Status, req.Notes)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	slog.Info("order status updated", "order", number, "status", req.Status)
	jsonResponse(w, http.StatusOK, order)
}
