package cubic

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"substratex/domain/dynamics"
)

// TestEngine_ConvergesToEquilibrium checks the noise-free law settles on
// the upper cubic fixed point x = (a+√(a²+4br))/(2b)
func TestEngine_ConvergesToEquilibrium(t *testing.T) {
	engine := NewEngine()
	params := dynamics.DefaultParams()
	params.R = 0.1

	result, err := engine.Run(context.Background(), params, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := (params.A + math.Sqrt(params.A*params.A+4*params.B*params.R)) / (2 * params.B)
	if math.Abs(result.Summary.Final-want) > 1e-3 {
		t.Errorf("expected settling near %.6f, got %.6f", want, result.Summary.Final)
	}
	if result.Summary.Regime != dynamics.RegimeTransitional {
		t.Errorf("expected TRANSITIONAL regime, got %s", result.Summary.Regime)
	}
}

// TestEngine_DecayIsStable checks pure decay classifies as STABLE
func TestEngine_DecayIsStable(t *testing.T) {
	engine := NewEngine()
	params := dynamics.DefaultParams()
	params.R = -0.1
	params.A = 0

	result, err := engine.Run(context.Background(), params, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Summary.Final > 1e-3 {
		t.Errorf("expected decay toward zero, got %.6f", result.Summary.Final)
	}
	if result.Summary.Regime != dynamics.RegimeStable {
		t.Errorf("expected STABLE regime, got %s", result.Summary.Regime)
	}
}

// TestEngine_SaturationBound verifies the state never leaves [0, saturation]
func TestEngine_SaturationBound(t *testing.T) {
	engine := NewEngine()
	params := dynamics.DefaultParams()
	params.R = 0.5
	params.NoiseCeil = 0.3

	rng := rand.New(rand.NewSource(7))
	result, err := engine.Run(context.Background(), params, rng)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for i, x := range result.History {
		if x < 0 || x > params.Saturation {
			t.Fatalf("state %.6f at step %d outside [0, %.2f]", x, i, params.Saturation)
		}
	}
}

// TestEngine_DeterministicFromSeed verifies identical seeds give identical runs
func TestEngine_DeterministicFromSeed(t *testing.T) {
	engine := NewEngine()
	profile, ok := dynamics.ProfileByKey("finance")
	if !ok {
		t.Fatal("finance profile missing from catalog")
	}

	a, err := engine.RunProfile(context.Background(), profile, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := engine.RunProfile(context.Background(), profile, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(a.History) != len(b.History) {
		t.Fatalf("history lengths differ: %d vs %d", len(a.History), len(b.History))
	}
	for i := range a.History {
		if a.History[i] != b.History[i] {
			t.Fatalf("histories diverge at step %d: %.12f vs %.12f", i, a.History[i], b.History[i])
		}
	}
}

// TestEquilibria_Residual checks the fixed points satisfy f(x*) = 0
func TestEquilibria_Residual(t *testing.T) {
	params := dynamics.DefaultParams()
	params.R = 0.1

	for _, x := range dynamics.Equilibria(params) {
		residual := params.R*x + params.A*x*x - params.B*x*x*x
		if math.Abs(residual) > 1e-12 {
			t.Errorf("f(%.6f) = %g, want 0", x, residual)
		}
	}
}

// TestEngine_CatalogRunsBounded runs every calibrated domain profile
func TestEngine_CatalogRunsBounded(t *testing.T) {
	engine := NewEngine()
	rng := rand.New(rand.NewSource(123))

	for _, profile := range dynamics.Catalog() {
		result, err := engine.RunProfile(context.Background(), profile, rng)
		if err != nil {
			t.Fatalf("%s run failed: %v", profile.Name, err)
		}
		if result.Summary.Final < 0 || result.Summary.Final > 1.5 {
			t.Errorf("%s final %.4f outside saturation band", profile.Name, result.Summary.Final)
		}
		if result.Summary.Regime == "" {
			t.Errorf("%s missing regime classification", profile.Name)
		}
	}
}
