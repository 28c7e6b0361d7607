package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/services/allocation/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// BatchRepository is the persistence interface for the Batch aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// The allocation core is storage-agnostic: it operates on in-memory Batch
// values and calls through this port to load and persist them. Serializing
// concurrent allocation requests for one SKU's batch set is the
// implementation's concern (a transaction or lock at the storage boundary).
type BatchRepository interface {
	// Save persists a new Batch with an empty allocation set.
	Save(ctx context.Context, batch *models.Batch) error

	// GetByID retrieves a Batch with its allocation set.
	// Returns ErrBatchNotFound when no batch exists.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)

	// FindBySKU retrieves all batches holding the given SKU, ordered by
	// ascending ETA, each with its allocation set.
	FindBySKU(ctx context.Context, sku models.SKU) ([]*models.Batch, error)

	// List retrieves a paginated list of batches and the total count
	// (ignoring pagination).
	List(ctx context.Context, opts QueryOpts) ([]*models.Batch, int, error)

	// AddAllocation persists one order line newly allocated to the batch.
	// The batch already holds the line in memory; this records the fact.
	AddAllocation(ctx context.Context, batch *models.Batch, line models.OrderLine) error

	// RemoveAllocation deletes a persisted allocation after the line has
	// been deallocated from the in-memory batch.
	RemoveAllocation(ctx context.Context, batch *models.Batch, line models.OrderLine) error

	// Delete removes a batch and its allocations.
	Delete(ctx context.Context, id uuid.UUID) error
}
