package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/services/allocation/domain"
)

// Batch is the core aggregate: a delivery of a fixed quantity of one SKU,
// arriving at a known ETA, from which order lines may draw stock.
//
// Invariant: the sum of allocated order-line quantities never exceeds Qty,
// and allocated lines are unique by value. The allocation set is private so
// the invariant can only be changed through Allocate and Deallocate.
type Batch struct {
	ID  uuid.UUID
	SKU SKU
	Qty int // total quantity on order
	ETA time.Time

	allocated []OrderLine
}

// NewBatch constructs a Batch with a generated ID and zero allocations.
// Qty must be positive.
func NewBatch(sku SKU, qty int, eta time.Time) (*Batch, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("batch quantity must be positive, got %d", qty)
	}
	return &Batch{
		ID:  uuid.New(),
		SKU: sku,
		Qty: qty,
		ETA: eta,
	}, nil
}

// RestoreBatch rebuilds a Batch from persisted state, including its
// allocation set. The quantity invariant is re-checked so a corrupt row
// cannot produce a batch with negative availability.
func RestoreBatch(id uuid.UUID, sku SKU, qty int, eta time.Time, allocated []OrderLine) (*Batch, error) {
	b := &Batch{
		ID:        id,
		SKU:       sku,
		Qty:       qty,
		ETA:       eta,
		allocated: slices.Clone(allocated),
	}
	if b.AvailableQty() < 0 {
		return nil, fmt.Errorf("batch %s: allocated quantity exceeds total %d", id, qty)
	}
	return b, nil
}

// AvailableQty returns the total quantity minus the sum of all currently
// allocated order-line quantities. Never negative.
func (b *Batch) AvailableQty() int {
	available := b.Qty
	for _, line := range b.allocated {
		available -= line.Qty
	}
	return available
}

// Allocate reserves the order line's quantity against this batch.
// On failure the batch is left unchanged:
//   - ErrSKUMismatch when the line's SKU differs from the batch's
//   - ErrLineAlreadyAllocated when the same line (by value) is already held
//   - ErrInsufficientStock when available quantity is less than line.Qty
func (b *Batch) Allocate(line OrderLine) error {
	if line.SKU != b.SKU {
		return domain.ErrSKUMismatch
	}
	if slices.Contains(b.allocated, line) {
		return domain.ErrLineAlreadyAllocated
	}
	if b.AvailableQty() < line.Qty {
		return domain.ErrInsufficientStock
	}
	b.allocated = append(b.allocated, line)
	return nil
}

// Deallocate releases a previously allocated order line.
// Returns ErrLineNotAllocated when the line (by value) is not held.
func (b *Batch) Deallocate(line OrderLine) error {
	i := slices.Index(b.allocated, line)
	if i < 0 {
		return domain.ErrLineNotAllocated
	}
	b.allocated = slices.Delete(b.allocated, i, i+1)
	return nil
}

// Allocations returns a copy of the allocation set.
func (b *Batch) Allocations() []OrderLine {
	return slices.Clone(b.allocated)
}
