package models

import "fmt"

// SKU is a value object identifying a product type.
// Encapsulates validation rules: 1 <= len(sku) <= 255.
type SKU string

const (
	minSKULength = 1
	maxSKULength = 255
)

// NewSKU constructs a valid SKU or returns an error if constraints are violated.
func NewSKU(s string) (SKU, error) {
	if len(s) < minSKULength {
		return "", fmt.Errorf("sku must be at least %d character", minSKULength)
	}
	if len(s) > maxSKULength {
		return "", fmt.Errorf("sku must not exceed %d characters", maxSKULength)
	}
	return SKU(s), nil
}

// String returns the underlying string value.
func (s SKU) String() string {
	return string(s)
}
