package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.StepSize != 0.05 || cfg.Solver.MaxSteps != 1000 {
		t.Errorf("solver stepping = %g/%d, want 0.05/1000", cfg.Solver.StepSize, cfg.Solver.MaxSteps)
	}
	if cfg.Solver.DivergeBound != 1e12 {
		t.Errorf("diverge bound = %g, want 1e12", cfg.Solver.DivergeBound)
	}
	if cfg.Solver.CaseTimeout != 2*time.Minute {
		t.Errorf("case timeout = %v, want 2m", cfg.Solver.CaseTimeout)
	}
	if cfg.Server.Port != "8080" || cfg.Server.OpsPort != "8081" {
		t.Errorf("ports = %s/%s, want 8080/8081", cfg.Server.Port, cfg.Server.OpsPort)
	}
}

func TestLoadSolverOverrides(t *testing.T) {
	t.Setenv("SOLVER_DT", "0.01")
	t.Setenv("SOLVER_MAX_STEPS", "5000")
	t.Setenv("SOLVER_DIVERGE_BOUND", "1e9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Solver.StepSize != 0.01 {
		t.Errorf("step size = %g, want 0.01", cfg.Solver.StepSize)
	}
	if cfg.Solver.MaxSteps != 5000 {
		t.Errorf("max steps = %d, want 5000", cfg.Solver.MaxSteps)
	}
	if cfg.Solver.DivergeBound != 1e9 {
		t.Errorf("diverge bound = %g, want 1e9", cfg.Solver.DivergeBound)
	}
}

func TestLoadRejectsInvalidSolver(t *testing.T) {
	t.Setenv("SOLVER_DT", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative SOLVER_DT")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("CONTRACT_THRESHOLD", "0.9")
	t.Setenv("EXPAND_THRESHOLD", "0.1")
	if _, err := Load(); err == nil {
		t.Error("expected error for contract threshold above expand threshold")
	}
}

func TestDatabaseDSN(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		sslMode string
		want    string
	}{
		{"empty url", "", "disable", ""},
		{
			"url form",
			"postgres://user:pw@localhost:5432/substratex",
			"disable",
			"postgres://user:pw@localhost:5432/substratex?sslmode=disable",
		},
		{
			"url form with query",
			"postgres://localhost/substratex?connect_timeout=5",
			"require",
			"postgres://localhost/substratex?connect_timeout=5&sslmode=require",
		},
		{
			"keyword form",
			"host=localhost dbname=substratex",
			"disable",
			"host=localhost dbname=substratex sslmode=disable",
		},
		{
			"url already carries sslmode",
			"postgres://localhost/substratex?sslmode=require",
			"disable",
			"postgres://localhost/substratex?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DatabaseConfig{URL: tt.url, SSLMode: tt.sslMode}
			if got := d.DSN(); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
