package domain

import "errors"

// Sentinel errors for the allocation domain. Use errors.Is() to check these.
var (
	// ErrSKUMismatch indicates the order line's SKU differs from the batch's SKU.
	ErrSKUMismatch = errors.New("order line sku does not match batch sku")

	// ErrLineAlreadyAllocated indicates the exact order line is already in the
	// batch's allocation set. A duplicate Allocate fails with this error and
	// leaves the batch unchanged.
	ErrLineAlreadyAllocated = errors.New("order line already allocated to batch")

	// ErrInsufficientStock indicates the batch's available quantity is less
	// than the order line's requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock in batch")

	// ErrLineNotAllocated indicates a deallocation of a line that was never
	// allocated to the batch.
	ErrLineNotAllocated = errors.New("order line not allocated to batch")

	// ErrNoBatchAvailable indicates no candidate batch accepted the order line.
	ErrNoBatchAvailable = errors.New("no batch can accept the order line")

	// ErrBatchNotFound indicates the requested batch does not exist.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrBatchAlreadyExists indicates a batch with the same ID is already persisted.
	ErrBatchAlreadyExists = errors.New("batch already exists")

	// ErrInvalidSKU indicates the SKU violates domain constraints.
	ErrInvalidSKU = errors.New("invalid sku")

	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
