package field

// GridSpec describes the simulation lattice. Spacing is assumed uniform
// with dx = dy = 1.
type GridSpec struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells returns the number of lattice sites.
func (g GridSpec) Cells() int { return g.Rows * g.Cols }

// ReactionParams holds the coupled reaction constants for the density
// (ρ), development (E) and constraint (F) fields.
type ReactionParams struct {
	Delta1 float64 `json:"delta1"` // development-driven density growth
	Delta2 float64 `json:"delta2"` // constraint-driven density decay
	Alpha  float64 `json:"alpha"`  // density contribution to development
	Beta   float64 `json:"beta"`   // logistic development growth
	Gamma  float64 `json:"gamma"`  // constraint drag on development
	TauE   float64 `json:"tau_e"`  // development relaxation
	TauF   float64 `json:"tau_f"`  // constraint relaxation
	R      float64 `json:"r"`      // constraint source rate
	D      float64 `json:"d"`      // diffusion coefficient (ρ and E only)
	DT     float64 `json:"dt"`     // Euler step
}

// DefaultReactionParams returns the calibrated urban reaction constants.
func DefaultReactionParams() ReactionParams {
	return ReactionParams{
		Delta1: 2.0,
		Delta2: 1.2,
		Alpha:  1.2,
		Beta:   0.8,
		Gamma:  1.0,
		TauE:   0.6,
		TauF:   0.4,
		R:      0.5,
		D:      0.1,
		DT:     0.01,
	}
}

// StepMetrics captures per-step diagnostics of the field evolution.
type StepMetrics struct {
	Step        int     `json:"step"`
	RhoVariance float64 `json:"rho_variance"`
	RhoMax      float64 `json:"rho_max"`
	TotalMass   float64 `json:"total_mass"`
}

// EvolutionResult is the outcome of a field simulation run.
type EvolutionResult struct {
	Steps         int         `json:"steps"`
	Stable        bool        `json:"stable"`
	FinalVariance float64     `json:"final_variance"`
	History       []StepMetrics `json:"history,omitempty"`
}
