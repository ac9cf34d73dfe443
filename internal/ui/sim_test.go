package ui

import (
	"testing"

	"beeclust/internal/sims/beeclust"
)

func TestLargestClusterMask(t *testing.T) {
	sim, err := beeclust.New([][]int{
		{5, 0, 4, 4},
		{0, 0, 0, 4},
		{2, 0, 1, 3},
	}, beeclust.DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mask := LargestClusterMask(sim)
	want := []float32{
		0.35, 0, 1, 1,
		0, 0, 0, 1,
		0, 0, 0, 0,
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("mask[%d] = %v, want %v (mask %v)", i, mask[i], want[i], mask)
		}
	}
}
