package gravity

import (
	"math"
	"math/rand"
	"testing"

	domain "substratex/domain/gravity"
)

// TestConcentration_EqualShares verifies HHI of n equal weights is 1/n
func TestConcentration_EqualShares(t *testing.T) {
	weights := []float64{1, 1, 1, 1}
	hhi, err := Concentration(weights)
	if err != nil {
		t.Fatalf("concentration failed: %v", err)
	}
	if math.Abs(hhi-0.25) > 1e-12 {
		t.Errorf("expected HHI 0.25, got %.6f", hhi)
	}
}

// TestConcentration_Monopoly verifies a single dominant weight drives HHI to 1
func TestConcentration_Monopoly(t *testing.T) {
	weights := []float64{1000, 1e-6, 1e-6, 1e-6}
	hhi, err := Concentration(weights)
	if err != nil {
		t.Fatalf("concentration failed: %v", err)
	}
	if hhi < 0.999 {
		t.Errorf("expected near-1 HHI for monopoly, got %.6f", hhi)
	}
}

// TestInequality_Extremes verifies uniform weights score 0 and a
// concentrated vector scores near 1
func TestInequality_Extremes(t *testing.T) {
	uniform := make([]float64, 64)
	for i := range uniform {
		uniform[i] = 3.5
	}
	d2, err := Inequality(uniform)
	if err != nil {
		t.Fatalf("inequality failed: %v", err)
	}
	if d2 > 1e-6 {
		t.Errorf("expected ~0 inequality for uniform weights, got %.6f", d2)
	}

	concentrated := make([]float64, 64)
	concentrated[0] = 1e9
	for i := 1; i < len(concentrated); i++ {
		concentrated[i] = 1e-9
	}
	d2, err = Inequality(concentrated)
	if err != nil {
		t.Fatalf("inequality failed: %v", err)
	}
	if d2 < 0.9 {
		t.Errorf("expected near-1 inequality for concentrated weights, got %.6f", d2)
	}
}

// TestSpectralEntropy_SineVsNoise verifies a pure tone has low spectral
// entropy and broadband noise has high entropy
func TestSpectralEntropy_SineVsNoise(t *testing.T) {
	n := 256
	sine := make([]float64, n)
	for i := range sine {
		sine[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(n))
	}
	sSine, err := SpectralEntropy(sine)
	if err != nil {
		t.Fatalf("sine entropy failed: %v", err)
	}

	rng := rand.New(rand.NewSource(99))
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = rng.NormFloat64()
	}
	sNoise, err := SpectralEntropy(noise)
	if err != nil {
		t.Fatalf("noise entropy failed: %v", err)
	}

	if sSine > 0.3 {
		t.Errorf("pure tone entropy should be low, got %.4f", sSine)
	}
	if sNoise < 0.7 {
		t.Errorf("broadband entropy should be high, got %.4f", sNoise)
	}
	if sSine >= sNoise {
		t.Errorf("tone entropy %.4f should be below noise entropy %.4f", sSine, sNoise)
	}
}

// TestComputeScore_GeometricMean verifies the composite score formula
func TestComputeScore_GeometricMean(t *testing.T) {
	score := ComputeScore(domain.CoherenceMetrics{
		Spectral:      0.5,
		Concentration: 0.5,
		Inequality:    0.5,
	}, 100)

	if math.Abs(score.Raw-0.5) > 1e-12 {
		t.Errorf("expected raw 0.5, got %.6f", score.Raw)
	}
	if math.Abs(score.Value-50) > 1e-9 {
		t.Errorf("expected scaled 50, got %.4f", score.Value)
	}
}

// TestIndicator_SignalBoundaries verifies classification against thresholds
func TestIndicator_SignalBoundaries(t *testing.T) {
	ind, err := NewIndicator(domain.Thresholds{Contract: 0.2, Expand: 0.6}, 100)
	if err != nil {
		t.Fatalf("indicator creation failed: %v", err)
	}

	cases := []struct {
		raw  float64
		want domain.Signal
	}{
		{0.05, domain.SignalContract},
		{0.2, domain.SignalHold},
		{0.4, domain.SignalHold},
		{0.6, domain.SignalHold},
		{0.85, domain.SignalExpand},
	}
	for _, tc := range cases {
		reading := ind.EvaluateScore(domain.Score{Raw: tc.raw}, "test")
		if reading.Signal != tc.want {
			t.Errorf("raw %.2f: expected %s, got %s", tc.raw, tc.want, reading.Signal)
		}
	}
}

// TestIndicator_RejectsInvertedThresholds verifies construction guards
func TestIndicator_RejectsInvertedThresholds(t *testing.T) {
	if _, err := NewIndicator(domain.Thresholds{Contract: 0.6, Expand: 0.2}, 100); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
}

// TestCalibrate_PercentileRule checks the 30/70 rule orders thresholds
func TestCalibrate_PercentileRule(t *testing.T) {
	scores := []float64{0.05, 0.10, 0.12, 0.20, 0.35, 0.45, 0.55, 0.60, 0.70, 0.80}
	thresholds, err := Calibrate(scores)
	if err != nil {
		t.Fatalf("calibration failed: %v", err)
	}
	if !thresholds.Valid() {
		t.Fatalf("thresholds not ordered: %+v", thresholds)
	}
	if thresholds.Contract < 0.05 || thresholds.Contract > 0.35 {
		t.Errorf("contract threshold %.3f outside plausible band", thresholds.Contract)
	}
	if thresholds.Expand < 0.45 || thresholds.Expand > 0.80 {
		t.Errorf("expand threshold %.3f outside plausible band", thresholds.Expand)
	}
}

// TestCalibrateLabeled_Separation verifies derived thresholds separate
// the labeled populations
func TestCalibrateLabeled_Separation(t *testing.T) {
	stable := []float64{0.50, 0.55, 0.60, 0.65, 0.70}
	critical := []float64{0.05, 0.08, 0.10, 0.12}

	thresholds, err := CalibrateLabeled(stable, critical)
	if err != nil {
		t.Fatalf("labeled calibration failed: %v", err)
	}

	for _, s := range critical {
		if thresholds.Classify(s) != domain.SignalContract {
			t.Errorf("critical score %.2f not classified CONTRACT", s)
		}
	}
	for _, s := range stable {
		if thresholds.Classify(s) == domain.SignalContract {
			t.Errorf("stable score %.2f classified CONTRACT", s)
		}
	}
}

// TestCalibrateLabeled_RejectsOverlap verifies overlapping populations fail
func TestCalibrateLabeled_RejectsOverlap(t *testing.T) {
	stable := []float64{0.3, 0.4, 0.5, 0.6}
	critical := []float64{0.1, 0.2, 0.35, 0.45}

	if _, err := CalibrateLabeled(stable, critical); err == nil {
		t.Fatal("expected overlap rejection, got nil")
	}
}

// TestIndicator_EvaluateEndToEnd exercises the full weights+series path
func TestIndicator_EvaluateEndToEnd(t *testing.T) {
	ind, err := NewIndicator(domain.DefaultThresholds(), 100)
	if err != nil {
		t.Fatalf("indicator creation failed: %v", err)
	}

	// Concentrated weights and broadband series: all components active
	weights := []float64{100, 2, 2, 1, 1, 1, 1, 1}
	rng := rand.New(rand.NewSource(5))
	series := make([]float64, 128)
	for i := range series {
		series[i] = rng.NormFloat64()
	}

	reading, err := ind.Evaluate(weights, series, "synthetic")
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if reading.Score.Raw <= 0 || reading.Score.Raw > 1 {
		t.Errorf("raw score %.4f outside (0, 1]", reading.Score.Raw)
	}
	if reading.Signal == "" {
		t.Error("missing signal")
	}
}
