package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics for the allocation bounded context.
const (
	// TopicBatchCreated is published when a new Batch is persisted.
	TopicBatchCreated = "batch.created"

	// TopicLineAllocated is published when an order line is reserved
	// against a batch.
	TopicLineAllocated = "batch.line_allocated"

	// TopicLineDeallocated is published when an order line is released
	// from a batch.
	TopicLineDeallocated = "batch.line_deallocated"
)

// BatchCreatedEvent is published after a new Batch is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicBatchCreated).
type BatchCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	BatchID    uuid.UUID `json:"batch_id"`
	SKU        string    `json:"sku"`
	Qty        int       `json:"qty"`
	ETA        time.Time `json:"eta"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LineAllocatedEvent is published after an order line is reserved against a
// batch. AvailableQty is the batch's availability after the allocation, so
// consumers can refresh read models without reloading the batch.
type LineAllocatedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Version      int       `json:"version"`
	BatchID      uuid.UUID `json:"batch_id"`
	OrderLineID  uuid.UUID `json:"order_line_id"`
	SKU          string    `json:"sku"`
	Qty          int       `json:"qty"`
	AvailableQty int       `json:"available_qty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// LineDeallocatedEvent is published after an order line is released from a
// batch.
type LineDeallocatedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Version      int       `json:"version"`
	BatchID      uuid.UUID `json:"batch_id"`
	OrderLineID  uuid.UUID `json:"order_line_id"`
	SKU          string    `json:"sku"`
	Qty          int       `json:"qty"`
	AvailableQty int       `json:"available_qty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
