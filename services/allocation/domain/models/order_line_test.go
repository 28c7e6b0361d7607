package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewOrderLine(t *testing.T) {
	t.Run("returns line with non-zero ID", func(t *testing.T) {
		line, err := NewOrderLine("LAMP", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.ID == (uuid.UUID{}) {
			t.Fatal("expected non-zero UUID for ID")
		}
	})

	t.Run("sets SKU and Qty correctly", func(t *testing.T) {
		line, err := NewOrderLine("LAMP", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.SKU != "LAMP" {
			t.Fatalf("expected SKU %q, got %q", "LAMP", line.SKU)
		}
		if line.Qty != 5 {
			t.Fatalf("expected Qty 5, got %d", line.Qty)
		}
	})

	t.Run("zero quantity returns error", func(t *testing.T) {
		if _, err := NewOrderLine("LAMP", 0); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("negative quantity returns error", func(t *testing.T) {
		if _, err := NewOrderLine("LAMP", -1); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("generates unique IDs on each call", func(t *testing.T) {
		line1, _ := NewOrderLine("LAMP", 5)
		line2, _ := NewOrderLine("LAMP", 5)
		if line1.ID == line2.ID {
			t.Fatal("expected unique IDs, got identical")
		}
	})
}

func TestOrderLine_Equality(t *testing.T) {
	t.Run("lines are equal when all fields match", func(t *testing.T) {
		id := uuid.New()
		a := RestoreOrderLine(id, "LAMP", 5)
		b := RestoreOrderLine(id, "LAMP", 5)
		if a != b {
			t.Fatal("expected structural equality")
		}
	})

	t.Run("lines differ when any field differs", func(t *testing.T) {
		id := uuid.New()
		a := RestoreOrderLine(id, "LAMP", 5)
		if a == RestoreOrderLine(uuid.New(), "LAMP", 5) {
			t.Fatal("expected inequality on ID")
		}
		if a == RestoreOrderLine(id, "CHAIR", 5) {
			t.Fatal("expected inequality on SKU")
		}
		if a == RestoreOrderLine(id, "LAMP", 6) {
			t.Fatal("expected inequality on Qty")
		}
	})
}
