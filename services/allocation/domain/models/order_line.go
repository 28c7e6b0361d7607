package models

import (
	"fmt"

	"github.com/google/uuid"
)

// OrderLine is an immutable request to fulfil a quantity of one SKU.
// It is a comparable value: two order lines are equal (==) when all fields
// match. Never mutated after construction.
type OrderLine struct {
	ID  uuid.UUID
	SKU SKU
	Qty int
}

// NewOrderLine constructs a valid OrderLine with a generated ID.
// Qty must be positive.
func NewOrderLine(sku SKU, qty int) (OrderLine, error) {
	if qty <= 0 {
		return OrderLine{}, fmt.Errorf("order line quantity must be positive, got %d", qty)
	}
	return OrderLine{
		ID:  uuid.New(),
		SKU: sku,
		Qty: qty,
	}, nil
}

// RestoreOrderLine rebuilds an OrderLine from persisted state. The storage
// layer is trusted to hand back values that were valid when saved.
func RestoreOrderLine(id uuid.UUID, sku SKU, qty int) OrderLine {
	return OrderLine{ID: id, SKU: sku, Qty: qty}
}
