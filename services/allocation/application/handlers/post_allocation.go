package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/pkg/errhttp"
	"github.com/ghuser/stockalloc/pkg/httpx"
	pkgvalidator "github.com/ghuser/stockalloc/pkg/validator"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// AllocateRequest is the request body for POST /allocations.
type AllocateRequest struct {
	SKU string `json:"sku" validate:"required,min=1,max=255"`
	Qty int    `json:"qty" validate:"required,gt=0"`
}

// AllocateResponse is returned when an order line is reserved against a batch.
type AllocateResponse struct {
	BatchID      uuid.UUID `json:"batch_id"`
	OrderLineID  uuid.UUID `json:"order_line_id"`
	SKU          string    `json:"sku"`
	Qty          int       `json:"qty"`
	AvailableQty int       `json:"available_qty"`
}

// PostAllocationHandler handles POST /allocations requests.
type PostAllocationHandler struct {
	svc *appsvcs.Services
}

// NewPostAllocationHandler returns a PostAllocationHandler backed by the given services.
func NewPostAllocationHandler(svc *appsvcs.Services) *PostAllocationHandler {
	return &PostAllocationHandler{svc: svc}
}

// Execute reserves the requested quantity against the earliest-arriving
// batch with capacity. Responds 409 when no batch can accept the line.
func (h *PostAllocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[AllocateRequest](w, r)
	if !ok {
		return
	}

	batch, line, err := h.svc.Allocation.Allocate(r.Context(), req.SKU, req.Qty)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, AllocateResponse{
		BatchID:      batch.ID,
		OrderLineID:  line.ID,
		SKU:          line.SKU.String(),
		Qty:          line.Qty,
		AvailableQty: batch.AvailableQty(),
	})
}
