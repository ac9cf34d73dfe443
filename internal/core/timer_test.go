package core

import (
	"testing"
	"time"
)

func TestFixedStepPacing(t *testing.T) {
	now := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return now }

	if !fs.ShouldStep() {
		t.Fatal("first call must step")
	}
	if fs.ShouldStep() {
		t.Fatal("no time has passed")
	}
	now = now.Add(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("half an interval must not step")
	}
	now = now.Add(50 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("a full interval must step")
	}

	now = now.Add(300 * time.Millisecond)
	steps := 0
	for fs.ShouldStep() {
		steps++
	}
	if steps != 3 {
		t.Fatalf("expected to catch up 3 ticks, got %d", steps)
	}
}

func TestFixedStepUnpaced(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.Interval() != 0 {
		t.Fatalf("interval = %v, want 0", fs.Interval())
	}
	for i := 0; i < 5; i++ {
		if !fs.ShouldStep() {
			t.Fatal("unpaced stepper must always step")
		}
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() || a.IntN(10) != b.IntN(10) {
			t.Fatalf("draw %d diverged", i)
		}
	}
	if a.IntN(0) != 0 || a.IntN(-3) != 0 {
		t.Fatal("IntN must return 0 for non-positive n")
	}
}
