package solver

import (
	"context"
	"math"
	"testing"
)

// TestRK4_ExponentialDecay verifies fourth-order accuracy on dx/dt = -x
func TestRK4_ExponentialDecay(t *testing.T) {
	it := New(func(t float64, y, dy []float64) {
		dy[0] = -y[0]
	}, Config{StepSize: 1e-3, DivergeBound: 1e6})

	y, err := it.Run(context.Background(), 0, []float64{1.0}, 1000, nil)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}

	want := math.Exp(-1)
	if math.Abs(y[0]-want) > 1e-6 {
		t.Errorf("expected e^-1=%.9f, got %.9f", want, y[0])
	}
}

// TestRK4_LogisticGrowth verifies convergence to the carrying capacity
func TestRK4_LogisticGrowth(t *testing.T) {
	it := New(func(t float64, y, dy []float64) {
		dy[0] = y[0] * (1 - y[0])
	}, Config{StepSize: 0.01, DivergeBound: 1e6})

	y, err := it.Run(context.Background(), 0, []float64{0.01}, 2000, nil)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}

	// After t=20 the logistic solution is within 1e-6 of 1.
	if math.Abs(y[0]-1.0) > 1e-4 {
		t.Errorf("expected convergence to 1.0, got %.6f", y[0])
	}
}

// TestRK4_DivergenceDetection verifies the bound check aborts blowups
func TestRK4_DivergenceDetection(t *testing.T) {
	it := New(func(t float64, y, dy []float64) {
		dy[0] = y[0] * y[0] // finite-time blowup from x0=1
	}, Config{StepSize: 0.1, DivergeBound: 1e6})

	_, err := it.Run(context.Background(), 0, []float64{1.0}, 10000, nil)
	if err == nil {
		t.Fatal("expected divergence error, got nil")
	}
}

// TestRK4_ContextCancellation verifies long runs respect cancellation
func TestRK4_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := New(func(t float64, y, dy []float64) {
		dy[0] = 0
	}, DefaultConfig())

	_, err := it.Run(ctx, 0, []float64{0}, 1 << 20, nil)
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

// TestRK4_ObserverAbort verifies observer errors stop the run
func TestRK4_ObserverAbort(t *testing.T) {
	it := New(func(t float64, y, dy []float64) {
		dy[0] = 1
	}, DefaultConfig())

	calls := 0
	_, err := it.Run(context.Background(), 0, []float64{0}, 100, func(step int, t float64, y []float64) error {
		calls++
		if step == 10 {
			return context.Canceled
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected observer error, got nil")
	}
	if calls != 10 {
		t.Errorf("expected 10 observer calls, got %d", calls)
	}
}

// TestDetector_UpwardCrossing verifies interpolated zero-crossing location
func TestDetector_UpwardCrossing(t *testing.T) {
	// sin(t) crosses zero upward at t=2π
	det := NewDetector(Event{
		Value:     func(t float64, y []float64) float64 { return math.Sin(t) },
		Direction: 1,
	})

	var hits []Crossing
	dt := 0.01
	state := []float64{0}
	for i := 0; i <= int(7/dt); i++ {
		tt := float64(i) * dt
		if hit, ok := det.Observe(tt, state); ok {
			hits = append(hits, hit)
		}
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 upward crossing in (0, 7], got %d", len(hits))
	}
	if math.Abs(hits[0].T-2*math.Pi) > 1e-4 {
		t.Errorf("expected crossing near 2π=%.6f, got %.6f", 2*math.Pi, hits[0].T)
	}
}

// TestDetector_DirectionFilter verifies downward crossings are ignored
func TestDetector_DirectionFilter(t *testing.T) {
	det := NewDetector(Event{
		Value:     func(t float64, y []float64) float64 { return math.Cos(t) },
		Direction: 1,
	})

	count := 0
	for i := 0; i <= 700; i++ {
		tt := float64(i) * 0.01
		if _, ok := det.Observe(tt, nil); ok {
			count++
		}
	}

	// cos crosses downward at π/2 and upward at 3π/2 within (0, 7]
	if count != 1 {
		t.Errorf("expected 1 upward crossing, got %d", count)
	}
}
