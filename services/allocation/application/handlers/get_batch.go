package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// GetBatchHandler handles GET /batches/{batchID} requests.
type GetBatchHandler struct {
	svc *appsvcs.Services
}

// NewGetBatchHandler returns a GetBatchHandler backed by the given services.
func NewGetBatchHandler(svc *appsvcs.Services) *GetBatchHandler {
	return &GetBatchHandler{svc: svc}
}

// Execute returns a batch summary including its available quantity.
func (h *GetBatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	batch, err := h.svc.Allocation.GetBatch(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, BatchResponse{
		ID:           batch.ID,
		SKU:          batch.SKU,
		Qty:          batch.Qty,
		AvailableQty: batch.AvailableQty,
		ETA:          batch.ETA,
	})
}
