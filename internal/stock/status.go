// Package stock derives the status label of a product kept in storage.
package stock

import "fmt"

// Status describes whether the quantity on hand is adequate for a product.
type Status string

const (
	Fine           Status = "Fine"
	NeedsAttention Status = "Needs Attention"
	InRisk         Status = "In Risk"
)

// ComputeStatus maps a quantity and the product's minimum quantity to a status.
//
// A quantity equal to the minimum needs attention, anything above it is fine
// and anything below it is in risk. Callers validate that minQuantity is
// positive; the function itself is defined for every pair of ints.
func ComputeStatus(quantity, minQuantity int) Status {
	switch {
	case quantity > minQuantity:
		return Fine
	case quantity == minQuantity:
		return NeedsAttention
	default:
		return InRisk
	}
}

// Rank orders statuses from worst to best: InRisk < NeedsAttention < Fine.
func (s Status) Rank() int {
	switch s {
	case InRisk:
		return 0
	case NeedsAttention:
		return 1
	case Fine:
		return 2
	}
	return -1
}

// NeedsRestock reports whether the product belongs on a shopping list.
func (s Status) NeedsRestock() bool {
	return s == InRisk || s == NeedsAttention
}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stock status %q", v)
	}
	return s, nil
}
