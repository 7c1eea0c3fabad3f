package report

import (
	"strings"
	"testing"
	"time"

	"substratex/domain/dynamics"
	"substratex/domain/gravity"
	"substratex/domain/relativity"
	"substratex/domain/run"
)

func TestSweepMarkdown(t *testing.T) {
	manifest := run.NewManifest(run.KindSweep, 42, nil)
	summaries := []dynamics.TrajectorySummary{
		{
			Profile: dynamics.DomainProfile{Key: "finance", Name: "Finance", Alpha: 0.2, Beta: 0.5},
			Final:   1.09,
			Regime:  dynamics.RegimeTransitional,
		},
	}

	md := NewBuilder().SweepMarkdown(manifest, summaries, 0.94)

	for _, want := range []string{"# Domain Catalog Sweep", "Finance", "TRANSITIONAL", "94%"} {
		if !strings.Contains(md, want) {
			t.Errorf("sweep markdown missing %q", want)
		}
	}
}

func TestValidationMarkdownMarksFailures(t *testing.T) {
	suite := &relativity.SuiteResult{
		RunID: "run-1",
		Cases: []relativity.CaseResult{
			{Name: relativity.CaseMercuryPrecession, Predicted: 42.99, Observed: 42.98, Passed: true},
			{Name: relativity.CasePulsarDecay, Predicted: -1e-12, Observed: -2.403e-12, Passed: false, Error: "deviation too large"},
		},
		Passed: 1,
		Failed: 1,
	}

	md := NewBuilder().ValidationMarkdown(suite)

	if !strings.Contains(md, "PASS") || !strings.Contains(md, "FAIL") {
		t.Errorf("validation markdown missing result markers:\n%s", md)
	}
	if !strings.Contains(md, "deviation too large") {
		t.Error("validation markdown missing failure detail")
	}
}

func TestSignalMarkdownEmpty(t *testing.T) {
	md := NewBuilder().SignalMarkdown(nil)
	if !strings.Contains(md, "No signals recorded") {
		t.Errorf("empty signal markdown = %q", md)
	}
}

func TestToHTMLRendersTable(t *testing.T) {
	reading := &gravity.Reading{
		Score:  gravity.Score{Value: 0.31, CalculatedAt: time.Now()},
		Signal: gravity.SignalHold,
		Source: "test-series",
	}

	md := NewBuilder().SignalMarkdown([]*gravity.Reading{reading})
	html := string(ToHTML(md))

	if !strings.Contains(html, "<table>") {
		t.Errorf("expected rendered table, got:\n%s", html)
	}
	if !strings.Contains(html, "test-series") {
		t.Error("rendered HTML missing signal source")
	}
}
