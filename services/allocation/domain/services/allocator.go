// Package services contains stateless domain services for the allocation
// bounded context. Domain services enforce business rules that operate
// purely on domain types and have zero external dependencies beyond stdlib
// and the domain layer.
package services

import (
	"slices"

	"github.com/ghuser/stockalloc/services/allocation/domain"
	"github.com/ghuser/stockalloc/services/allocation/domain/models"
)

// Allocate selects the batch the order line should be reserved against.
//
// Candidates are scanned in ascending ETA order, so stock already on hand
// (earliest or equal ETA) is used before stock in transit. The first batch
// whose Allocate succeeds is chosen and mutated; remaining batches are not
// attempted. Equal-ETA batches keep their original relative order (stable
// sort). The caller's slice ordering is not modified.
//
// Returns ErrNoBatchAvailable when every candidate rejects the line, in
// which case no batch is mutated.
func Allocate(line models.OrderLine, batches []*models.Batch) (*models.Batch, error) {
	candidates := slices.Clone(batches)
	slices.SortStableFunc(candidates, func(a, b *models.Batch) int {
		return a.ETA.Compare(b.ETA)
	})

	for _, batch := range candidates {
		if err := batch.Allocate(line); err == nil {
			return batch, nil
		}
	}
	return nil, domain.ErrNoBatchAvailable
}
