package services

import (
	"github.com/ghuser/stockalloc/pkg/app"
	"github.com/ghuser/stockalloc/pkg/cache"
	"github.com/ghuser/stockalloc/services/allocation/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Allocation *AllocationService
}

// New wires all allocation application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewBatchRepository(a.Db, a.EventBus)
	batchCache := cache.NewBatchCache(a.Redis)
	return &Services{
		Allocation: NewAllocationService(repo, batchCache),
	}
}
