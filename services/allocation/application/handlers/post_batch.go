package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockalloc/pkg/validator"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// CreateBatchRequest is the request body for POST /batches.
type CreateBatchRequest struct {
	SKU string    `json:"sku" validate:"required,min=1,max=255"`
	Qty int       `json:"qty" validate:"required,gt=0"`
	ETA time.Time `json:"eta" validate:"required"`
}

// BatchResponse is returned for batch reads and successful creation.
type BatchResponse struct {
	ID           uuid.UUID `json:"id"`
	SKU          string    `json:"sku"`
	Qty          int       `json:"qty"`
	AvailableQty int       `json:"available_qty"`
	ETA          time.Time `json:"eta"`
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PostBatchHandler handles POST /batches requests.
type PostBatchHandler struct {
	svc *appsvcs.Services
}

// NewPostBatchHandler returns a PostBatchHandler backed by the given services.
func NewPostBatchHandler(svc *appsvcs.Services) *PostBatchHandler {
	return &PostBatchHandler{svc: svc}
}

// Execute registers a new inventory batch.
func (h *PostBatchHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateBatchRequest](w, r)
	if !ok {
		return
	}

	batch, err := h.svc.Allocation.CreateBatch(r.Context(), req.SKU, req.Qty, req.ETA)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, BatchResponse{
		ID:           batch.ID,
		SKU:          batch.SKU.String(),
		Qty:          batch.Qty,
		AvailableQty: batch.AvailableQty(),
		ETA:          batch.ETA,
	})
}
