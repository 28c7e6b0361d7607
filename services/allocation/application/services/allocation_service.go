package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/stockalloc/pkg/cache"
	allocdomain "github.com/ghuser/stockalloc/services/allocation/domain"
	"github.com/ghuser/stockalloc/services/allocation/domain/models"
	"github.com/ghuser/stockalloc/services/allocation/domain/repositories"
	domainsvcs "github.com/ghuser/stockalloc/services/allocation/domain/services"
)

// AllocationService orchestrates batch lifecycle and order-line allocation.
// Event publishing is handled by the repository layer (outbox pattern).
// Batch reads are served from Redis cache when available.
//
// Serializing concurrent allocation requests for one SKU is the storage
// layer's responsibility: every allocation write happens inside a single
// repository transaction.
type AllocationService struct {
	repo  repositories.BatchRepository
	cache *pkgcache.BatchCache
}

// NewAllocationService returns an AllocationService wired with the given
// repository and cache.
func NewAllocationService(repo repositories.BatchRepository, batchCache *pkgcache.BatchCache) *AllocationService {
	return &AllocationService{repo: repo, cache: batchCache}
}

// CreateBatch validates and persists a new Batch with zero allocations.
// The repository publishes BatchCreatedEvent.
func (s *AllocationService) CreateBatch(ctx context.Context, sku string, qty int, eta time.Time) (*models.Batch, error) {
	batchSKU, err := models.NewSKU(sku)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", allocdomain.ErrInvalidSKU, err)
	}

	batch, err := models.NewBatch(batchSKU, qty, eta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", allocdomain.ErrInvalidQuantity, err)
	}

	if err := s.repo.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("save batch: %w", err)
	}

	return batch, nil
}

// GetBatch retrieves a batch summary using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
//
// The cached read model carries the precomputed available quantity; callers
// needing the full allocation set should load through the repository.
func (s *AllocationService) GetBatch(ctx context.Context, id uuid.UUID) (*pkgcache.CachedBatch, error) {
	if s.cache != nil {
		// Miss and cache failure both fall through to Postgres.
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cached, nil
		}
	}

	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	summary := toCached(batch)
	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), summary)
		}()
	}

	return summary, nil
}

// ListBatches returns a paginated slice of batches plus total count.
func (s *AllocationService) ListBatches(ctx context.Context, opts repositories.QueryOpts) ([]*models.Batch, int, error) {
	batches, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	return batches, total, nil
}

// Allocate reserves qty units of sku against the earliest-arriving batch
// with capacity. It loads all candidate batches for the SKU, runs the
// allocation policy, and persists the chosen batch's new allocation.
// Returns the chosen batch and the created order line.
//
// Fails with ErrNoBatchAvailable when no batch accepts the line; no batch
// is persisted or mutated in that case.
func (s *AllocationService) Allocate(ctx context.Context, sku string, qty int) (*models.Batch, models.OrderLine, error) {
	lineSKU, err := models.NewSKU(sku)
	if err != nil {
		return nil, models.OrderLine{}, fmt.Errorf("%w: %w", allocdomain.ErrInvalidSKU, err)
	}

	line, err := models.NewOrderLine(lineSKU, qty)
	if err != nil {
		return nil, models.OrderLine{}, fmt.Errorf("%w: %w", allocdomain.ErrInvalidQuantity, err)
	}

	batches, err := s.repo.FindBySKU(ctx, lineSKU)
	if err != nil {
		return nil, models.OrderLine{}, fmt.Errorf("find batches for %s: %w", lineSKU, err)
	}

	batch, err := domainsvcs.Allocate(line, batches)
	if err != nil {
		return nil, models.OrderLine{}, err
	}

	if err := s.repo.AddAllocation(ctx, batch, line); err != nil {
		return nil, models.OrderLine{}, fmt.Errorf("persist allocation: %w", err)
	}

	s.invalidate(batch.ID)
	return batch, line, nil
}

// Deallocate releases the order line from the batch and removes the
// persisted allocation. Returns ErrLineNotAllocated when the batch does not
// hold a line with the given ID.
func (s *AllocationService) Deallocate(ctx context.Context, batchID, lineID uuid.UUID) error {
	batch, err := s.repo.GetByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("get batch: %w", err)
	}

	var line models.OrderLine
	found := false
	for _, l := range batch.Allocations() {
		if l.ID == lineID {
			line = l
			found = true
			break
		}
	}
	if !found {
		return allocdomain.ErrLineNotAllocated
	}

	if err := batch.Deallocate(line); err != nil {
		return err
	}

	if err := s.repo.RemoveAllocation(ctx, batch, line); err != nil {
		return fmt.Errorf("remove allocation: %w", err)
	}

	s.invalidate(batch.ID)
	return nil
}

// DeleteBatch removes a batch and its allocations.
// Returns ErrBatchNotFound if no matching batch exists.
func (s *AllocationService) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get batch: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	s.invalidate(id)
	return nil
}

func (s *AllocationService) invalidate(id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
}

func toCached(batch *models.Batch) *pkgcache.CachedBatch {
	return &pkgcache.CachedBatch{
		ID:           batch.ID,
		SKU:          batch.SKU.String(),
		Qty:          batch.Qty,
		AvailableQty: batch.AvailableQty(),
		ETA:          batch.ETA,
	}
}
