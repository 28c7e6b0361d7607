package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
	"github.com/ghuser/stockalloc/services/allocation/domain/repositories"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListBatchesResponse is returned for GET /batches.
type ListBatchesResponse struct {
	Batches []BatchResponse `json:"batches"`
	Total   int             `json:"total"`
}

// ListBatchesHandler handles GET /batches requests.
type ListBatchesHandler struct {
	svc *appsvcs.Services
}

// NewListBatchesHandler returns a ListBatchesHandler backed by the given services.
func NewListBatchesHandler(svc *appsvcs.Services) *ListBatchesHandler {
	return &ListBatchesHandler{svc: svc}
}

// Execute returns a paginated list of batches. Query params: limit, offset.
func (h *ListBatchesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	opts := repositories.QueryOpts{Limit: defaultListLimit}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxListLimit {
			httpx.JSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		opts.Offset = n
	}

	batches, total, err := h.svc.Allocation.ListBatches(r.Context(), opts)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := ListBatchesResponse{
		Batches: make([]BatchResponse, len(batches)),
		Total:   total,
	}
	for i, b := range batches {
		resp.Batches[i] = BatchResponse{
			ID:           b.ID,
			SKU:          b.SKU.String(),
			Qty:          b.Qty,
			AvailableQty: b.AvailableQty(),
			ETA:          b.ETA,
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}
