package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dukerupert/orderdesk/internal/repository"
)

// OrderStore is the order read surface the handlers need.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]repository.OrderSummary, error)
	GetOrder(ctx context.Context, orderID string) (*repository.Order, error)
}

// OrdersHandler serves the order list and detail endpoints.
type OrdersHandler struct {
	store  OrderStore
	logger *slog.Logger
}

// NewOrdersHandler creates an orders handler.
func NewOrdersHandler(store OrderStore, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{
		store:  store,
		logger: logger,
	}
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		respondError(w, err)
		return
	}
	if orders == nil {
		orders = []repository.OrderSummary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// Get handles GET /api/orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order", "order_id", orderID, "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": order})
}
