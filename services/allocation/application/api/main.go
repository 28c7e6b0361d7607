package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/stockalloc/pkg/app"
	"github.com/ghuser/stockalloc/services/allocation/application/handlers"
	appsvcs "github.com/ghuser/stockalloc/services/allocation/application/services"
)

// AllocationRoutes registers batch and allocation endpoints on the provided
// chi router.
func AllocationRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", handlers.NewPostBatchHandler(svcs).Execute)
			r.Get("/", handlers.NewListBatchesHandler(svcs).Execute)
			r.Get("/{batchID}", handlers.NewGetBatchHandler(svcs).Execute)
			r.Delete("/{batchID}", handlers.NewDeleteBatchHandler(svcs).Execute)
			r.Delete("/{batchID}/allocations/{lineID}", handlers.NewDeleteAllocationHandler(svcs).Execute)
		})
		r.Route("/allocations", func(r chi.Router) {
			r.Post("/", handlers.NewPostAllocationHandler(svcs).Execute)
		})
	})
}
