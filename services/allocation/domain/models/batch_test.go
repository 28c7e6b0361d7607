package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/stockalloc/services/allocation/domain"
)

func mustLine(t *testing.T, sku SKU, qty int) OrderLine {
	t.Helper()
	line, err := NewOrderLine(sku, qty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return line
}

func mustBatch(t *testing.T, sku SKU, qty int) *Batch {
	t.Helper()
	b, err := NewBatch(sku, qty, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b
}

func TestNewBatch(t *testing.T) {
	t.Run("fresh batch has full availability", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 20)
		if got := b.AvailableQty(); got != 20 {
			t.Fatalf("expected available qty 20, got %d", got)
		}
	})

	t.Run("returns batch with non-zero ID", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 20)
		if b.ID == (uuid.UUID{}) {
			t.Fatal("expected non-zero UUID for ID")
		}
	})

	t.Run("generates unique IDs on each call", func(t *testing.T) {
		b1 := mustBatch(t, "SMALL-TABLE", 20)
		b2 := mustBatch(t, "SMALL-TABLE", 20)
		if b1.ID == b2.ID {
			t.Fatal("expected unique IDs, got identical")
		}
	})

	t.Run("zero quantity returns error", func(t *testing.T) {
		if _, err := NewBatch("SMALL-TABLE", 0, time.Now().UTC()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("negative quantity returns error", func(t *testing.T) {
		if _, err := NewBatch("SMALL-TABLE", -5, time.Now().UTC()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBatch_Allocate(t *testing.T) {
	t.Run("reduces available quantity", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 20)
		line := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Allocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := b.AvailableQty(); got != 18 {
			t.Fatalf("expected available qty 18, got %d", got)
		}
	})

	t.Run("insufficient stock leaves batch unchanged", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 1)
		line := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Allocate(line); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if got := b.AvailableQty(); got != 1 {
			t.Fatalf("expected available qty 1, got %d", got)
		}
		if n := len(b.Allocations()); n != 0 {
			t.Fatalf("expected empty allocation set, got %d lines", n)
		}
	})

	t.Run("sku mismatch leaves batch unchanged", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 10)
		line := mustLine(t, "BIG-TABLE", 2)

		if err := b.Allocate(line); !errors.Is(err, domain.ErrSKUMismatch) {
			t.Fatalf("expected ErrSKUMismatch, got %v", err)
		}
		if got := b.AvailableQty(); got != 10 {
			t.Fatalf("expected available qty 10, got %d", got)
		}
	})

	t.Run("duplicate allocation is rejected without mutation", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 20)
		line := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Allocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := b.Allocate(line); !errors.Is(err, domain.ErrLineAlreadyAllocated) {
			t.Fatalf("expected ErrLineAlreadyAllocated, got %v", err)
		}
		if got := b.AvailableQty(); got != 18 {
			t.Fatalf("expected available qty 18 after duplicate attempt, got %d", got)
		}
	})

	t.Run("distinct lines of equal shape both allocate", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 20)
		line1 := mustLine(t, "SMALL-TABLE", 2)
		line2 := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Allocate(line1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := b.Allocate(line2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := b.AvailableQty(); got != 16 {
			t.Fatalf("expected available qty 16, got %d", got)
		}
	})

	t.Run("can allocate up to exactly the available quantity", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 2)
		line := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Allocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := b.AvailableQty(); got != 0 {
			t.Fatalf("expected available qty 0, got %d", got)
		}
	})
}

func TestBatch_Deallocate(t *testing.T) {
	t.Run("round trip restores available quantity", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 10)
		line := mustLine(t, "SMALL-TABLE", 3)

		if err := b.Allocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := b.Deallocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := b.AvailableQty(); got != 10 {
			t.Fatalf("expected available qty 10, got %d", got)
		}
	})

	t.Run("can only deallocate allocated lines", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 10)
		line := mustLine(t, "SMALL-TABLE", 2)

		if err := b.Deallocate(line); !errors.Is(err, domain.ErrLineNotAllocated) {
			t.Fatalf("expected ErrLineNotAllocated, got %v", err)
		}
		if got := b.AvailableQty(); got != 10 {
			t.Fatalf("expected available qty 10, got %d", got)
		}
	})
}

func TestBatch_Allocations(t *testing.T) {
	t.Run("returns a copy", func(t *testing.T) {
		b := mustBatch(t, "SMALL-TABLE", 10)
		line := mustLine(t, "SMALL-TABLE", 2)
		if err := b.Allocate(line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := b.Allocations()
		got[0] = OrderLine{}
		if b.Allocations()[0] != line {
			t.Fatal("mutating the returned slice must not affect the batch")
		}
	})
}

func TestRestoreBatch(t *testing.T) {
	eta := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("rebuilds batch with allocations", func(t *testing.T) {
		id := uuid.New()
		line := RestoreOrderLine(uuid.New(), "SMALL-TABLE", 4)

		b, err := RestoreBatch(id, "SMALL-TABLE", 10, eta, []OrderLine{line})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.ID != id {
			t.Fatalf("expected ID %v, got %v", id, b.ID)
		}
		if got := b.AvailableQty(); got != 6 {
			t.Fatalf("expected available qty 6, got %d", got)
		}
	})

	t.Run("rejects over-allocated state", func(t *testing.T) {
		lines := []OrderLine{
			RestoreOrderLine(uuid.New(), "SMALL-TABLE", 8),
			RestoreOrderLine(uuid.New(), "SMALL-TABLE", 5),
		}
		if _, err := RestoreBatch(uuid.New(), "SMALL-TABLE", 10, eta, lines); err == nil {
			t.Fatal("expected error for allocations exceeding total quantity")
		}
	})

	t.Run("does not alias the caller's slice", func(t *testing.T) {
		lines := []OrderLine{RestoreOrderLine(uuid.New(), "SMALL-TABLE", 4)}
		b, err := RestoreBatch(uuid.New(), "SMALL-TABLE", 10, eta, lines)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines[0] = OrderLine{}
		if b.AvailableQty() != 6 {
			t.Fatal("mutating the input slice must not affect the batch")
		}
	})
}
