package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// DeleteAllocationHandler handles DELETE /batches/{batchID}/allocations/{lineID}.
type DeleteAllocationHandler struct {
	svc *appsvcs.Services
}

// NewDeleteAllocationHandler returns a DeleteAllocationHandler backed by the given services.
func NewDeleteAllocationHandler(svc *appsvcs.Services) *DeleteAllocationHandler {
	return &DeleteAllocationHandler{svc: svc}
}

// Execute releases an order line from a batch, restoring its availability.
func (h *DeleteAllocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid batch id")
		return
	}
	lineID, err := uuid.Parse(chi.URLParam(r, "lineID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid order line id")
		return
	}

	if err := h.svc.Allocation.Deallocate(r.Context(), batchID, lineID); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
