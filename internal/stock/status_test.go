package stock

import (
	"math"
	"testing"
)

func TestComputeStatus_ConcreteCases(t *testing.T) {
	tests := []struct {
		quantity    int
		minQuantity int
		want        Status
	}{
		{5, 5, NeedsAttention},
		{6, 5, Fine},
		{4, 5, InRisk},
		{0, 1, InRisk},
		{1, 1, NeedsAttention},
		{2, 1, Fine},
		{100, 3, Fine},
	}

	for _, tt := range tests {
		got := ComputeStatus(tt.quantity, tt.minQuantity)
		if got != tt.want {
			t.Errorf("ComputeStatus(%d, %d) = %q, want %q", tt.quantity, tt.minQuantity, got, tt.want)
		}
	}
}

func TestComputeStatus_Properties(t *testing.T) {
	for minQty := 1; minQty <= 50; minQty++ {
		if got := ComputeStatus(minQty, minQty); got != NeedsAttention {
			t.Fatalf("ComputeStatus(%d, %d) = %q, want %q", minQty, minQty, got, NeedsAttention)
		}
		for q := 0; q < minQty; q++ {
			if got := ComputeStatus(q, minQty); got != InRisk {
				t.Fatalf("ComputeStatus(%d, %d) = %q, want %q", q, minQty, got, InRisk)
			}
		}
		for q := minQty + 1; q <= minQty+50; q++ {
			if got := ComputeStatus(q, minQty); got != Fine {
				t.Fatalf("ComputeStatus(%d, %d) = %q, want %q", q, minQty, got, Fine)
			}
		}
	}
}

func TestComputeStatus_Monotonic(t *testing.T) {
	for minQty := 1; minQty <= 20; minQty++ {
		prev := ComputeStatus(0, minQty)
		for q := 1; q <= 60; q++ {
			cur := ComputeStatus(q, minQty)
			if cur.Rank() < prev.Rank() {
				t.Fatalf("status went backwards at quantity %d (min %d): %q -> %q", q, minQty, prev, cur)
			}
			prev = cur
		}
	}
}

func TestComputeStatus_NoOverflowAtBounds(t *testing.T) {
	if got := ComputeStatus(math.MaxInt, math.MaxInt); got != NeedsAttention {
		t.Errorf("expected %q at MaxInt, got %q", NeedsAttention, got)
	}
	if got := ComputeStatus(math.MaxInt-1, math.MaxInt); got != InRisk {
		t.Errorf("expected %q below MaxInt, got %q", InRisk, got)
	}
}

func TestStatusHelpers(t *testing.T) {
	if Fine.NeedsRestock() {
		t.Error("Fine should not need restock")
	}
	if !InRisk.NeedsRestock() || !NeedsAttention.NeedsRestock() {
		t.Error("InRisk and NeedsAttention should need restock")
	}

	if _, err := ParseStatus("Needs Attention"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("Broken"); err == nil {
		t.Error("expected error for unknown status")
	}
}
