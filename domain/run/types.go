package run

import (
	"fmt"

	"substratex/domain/core"
)

// Kind distinguishes the pipelines that produce runs.
type Kind string

const (
	KindSweep      Kind = "sweep"
	KindValidation Kind = "validation"
	KindIndicator  Kind = "indicator"
	KindField      Kind = "field"
)

// Status is the run lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Manifest is the audit record of a run: what was executed, with which
// seed and parameters, and the deterministic fingerprint of the outcome.
type Manifest struct {
	RunID       core.RunID             `json:"run_id"`
	Kind        Kind                   `json:"kind"`
	Status      Status                 `json:"status"`
	Seed        int64                  `json:"seed"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Counts      map[string]int         `json:"counts,omitempty"`
	Fingerprint core.Fingerprint       `json:"fingerprint"`
	Error       string                 `json:"error,omitempty"`
	RuntimeMs   int64                  `json:"runtime_ms"`
	CreatedAt   core.Timestamp         `json:"created_at"`
	UpdatedAt   core.Timestamp         `json:"updated_at"`
}

// NewManifest creates a pending manifest for a run.
func NewManifest(kind Kind, seed int64, params map[string]interface{}) *Manifest {
	now := core.Now()
	return &Manifest{
		RunID:      core.RunID(core.NewID()),
		Kind:       kind,
		Status:     StatusPending,
		Seed:       seed,
		Parameters: params,
		Counts:     map[string]int{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Start transitions the manifest to running.
func (m *Manifest) Start() {
	m.Status = StatusRunning
	m.UpdatedAt = core.Now()
}

// Complete stamps the manifest with its fingerprint and runtime.
func (m *Manifest) Complete(fingerprint core.Fingerprint, runtimeMs int64) {
	m.Status = StatusCompleted
	m.Fingerprint = fingerprint
	m.RuntimeMs = runtimeMs
	m.UpdatedAt = core.Now()
}

// Fail records a terminal error on the manifest.
func (m *Manifest) Fail(err error) {
	m.Status = StatusFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = core.Now()
}

// Terminal reports whether the run reached a final state.
func (m *Manifest) Terminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusFailed
}

// Describe returns a one-line human summary.
func (m *Manifest) Describe() string {
	return fmt.Sprintf("%s run %s [%s] seed=%d", m.Kind, m.RunID, m.Status, m.Seed)
}
