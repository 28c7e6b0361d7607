package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// DeleteBatchHandler handles DELETE /batches/{batchID} requests.
type DeleteBatchHandler struct {
	svc *appsvcs.Services
}

// NewDeleteBatchHandler returns a DeleteBatchHandler backed by the given services.
func NewDeleteBatchHandler(svc *appsvcs.Services) *DeleteBatchHandler {
	return &DeleteBatchHandler{svc: svc}
}

// Execute archives a batch and all allocations held against it.
func (h *DeleteBatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	if err := h.svc.Allocation.DeleteBatch(r.Context(), id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
