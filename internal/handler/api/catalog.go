package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/orderdesk/internal/domain"
)

// CatalogStore is the catalog surface the handlers need.
type CatalogStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProductStock(ctx context.Context, productID string, stock int32) error
}

// CatalogHandler serves customer and product endpoints.
type CatalogHandler struct {
	store  CatalogStore
	logger *slog.Logger
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(store CatalogStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		logger: logger,
	}
}

type customerResponse struct {
	ID      string `json:"c_id"`
	Name    string `json:"c_name"`
	Email   string `json:"c_email"`
	Address string `json:"c_address"`
}

type productResponse struct {
	ID          string `json:"p_id"`
	Name        string `json:"p_name"`
	Price       string `json:"p_price"`
	Stock       int32  `json:"p_stock"`
	MinQuantity int32  `json:"p_min_qty"`
}

// ListCustomers handles GET /api/customers.
func (h *CatalogHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("failed to list customers", "error", err)
		respondError(w, err)
		return
	}

	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = customerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Address: c.Address}
	}
	respondJSON(w, http.StatusOK, map[string]any{"customers": out})
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		respondError(w, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price.String(),
			Stock:       p.Stock,
			MinQuantity: p.MinQuantity,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": out})
}

type updateStockRequest struct {
	Stock *int32 `json:"stock"`
}

// UpdateStock handles PUT /api/products/{id}/stock.
func (h *CatalogHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Stock == nil {
		respondError(w, domain.Invalid("catalog.update_stock", "stock is required"))
		return
	}
	if *req.Stock < 0 {
		respondError(w, domain.Invalid("catalog.update_stock", "stock must be non-negative"))
		return
	}

	if err := h.store.UpdateProductStock(r.Context(), productID, *req.Stock); err != nil {
		h.logger.Error("failed to update stock", "product_id", productID, "error", err)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"p_id": productID, "p_stock": *req.Stock})
}
