package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/pipeline"
)

// OrderProcessor runs one order-intake pipeline pass.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, emailText string) pipeline.Result
}

// ProcessOrderHandler handles POST /api/process-order.
type ProcessOrderHandler struct {
	processor OrderProcessor
	logger    *slog.Logger
}

// NewProcessOrderHandler creates a process-order handler.
func NewProcessOrderHandler(processor OrderProcessor, logger *slog.Logger) *ProcessOrderHandler {
	return &ProcessOrderHandler{
		processor: processor,
		logger:    logger,
	}
}

type processOrderRequest struct {
	EmailText string `json:"email_text"`
}

// ServeHTTP runs the pipeline over the posted email text and returns the
// composite per-stage result. The call succeeds (200) even when stages
// inside it failed; stage errors live in the body, not the status code.
func (h *ProcessOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req processOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.Invalid("order.process", "invalid request body"))
		return
	}
	if req.EmailText == "" {
		respondError(w, domain.Invalid("order.process", "email_text is required"))
		return
	}

	result := h.processor.ProcessOrder(r.Context(), req.EmailText)
	respondJSON(w, http.StatusOK, result)
}
