package sweep

import (
	"context"
	"testing"

	"substratex/domain/core"
	"substratex/domain/dynamics"
	"substratex/internal/cubic"
	"substratex/internal/testkit"
)

func TestRunSweepsFullCatalog(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 4)
	runID := core.RunID(core.NewID())

	result, err := runner.Run(context.Background(), runID, 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	catalog := dynamics.Catalog()
	if len(result.Outcomes) != len(catalog) {
		t.Fatalf("outcomes = %d, want %d", len(result.Outcomes), len(catalog))
	}
	for i, o := range result.Outcomes {
		if o.Error != "" {
			t.Errorf("domain %s errored: %s", catalog[i].Key, o.Error)
			continue
		}
		if o.Summary.Profile.Key != catalog[i].Key {
			t.Errorf("outcome %d profile = %s, want %s (catalog order)",
				i, o.Summary.Profile.Key, catalog[i].Key)
		}
		if o.Summary.Final < 0 || o.Summary.Final > 1.5 {
			t.Errorf("domain %s final %.4f outside saturation band", catalog[i].Key, o.Summary.Final)
		}
	}

	total := 0
	for _, n := range result.RegimeCounts {
		total += n
	}
	if total != len(catalog) {
		t.Errorf("regime counts sum to %d, want %d", total, len(catalog))
	}
	if result.Fingerprint.IsEmpty() {
		t.Error("fingerprint is empty")
	}
}

func TestRunUniversalityAcrossDomains(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 4)

	result, err := runner.Run(context.Background(), core.RunID(core.NewID()), 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Noisy profiles push every domain off the trivial fixed point
	if result.Universality < 0.9 {
		t.Errorf("universality = %.2f, want most domains showing non-trivial dynamics",
			result.Universality)
	}
}

func TestRunSameSeedSameFingerprint(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 4)

	first, err := runner.Run(context.Background(), core.RunID(core.NewID()), 7)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := runner.Run(context.Background(), core.RunID(core.NewID()), 7)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprints differ for identical seed:\n %s\n %s",
			first.Fingerprint, second.Fingerprint)
	}
}

func TestRunDifferentSeedDifferentFingerprint(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 2)

	first, err := runner.Run(context.Background(), core.RunID(core.NewID()), 1)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := runner.Run(context.Background(), core.RunID(core.NewID()), 2)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.Fingerprint == second.Fingerprint {
		t.Error("fingerprints identical for different seeds")
	}
}

func TestRunHonorsConfiguredEngine(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 2)
	runner.SetEngine(&cubic.Engine{DT: 0.05, Steps: 64})

	result, err := runner.Run(context.Background(), core.RunID(core.NewID()), 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, o := range result.Outcomes {
		if o.Error != "" {
			continue
		}
		if o.Summary.Steps != 64 {
			t.Fatalf("domain %s ran %d steps, want configured 64",
				o.Summary.Profile.Key, o.Summary.Steps)
		}
	}
}

func TestRunNilRNGRejected(t *testing.T) {
	runner := NewRunner(nil, 2)
	if _, err := runner.Run(context.Background(), core.RunID(core.NewID()), 1); err == nil {
		t.Error("expected error for nil RNG port")
	}
}

func TestRunCanceledContext(t *testing.T) {
	runner := NewRunner(testkit.NewSeededRNG(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx, core.RunID(core.NewID()), 1); err == nil {
		t.Error("expected error for canceled context")
	}
}
