package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"substratex/domain/dynamics"
	"substratex/domain/gravity"
	"substratex/domain/relativity"
	"substratex/domain/run"
)

// Builder renders run results as Markdown and HTML reports.
type Builder struct{}

// NewBuilder creates a report builder.
func NewBuilder() *Builder { return &Builder{} }

// SweepMarkdown renders a catalog sweep as a Markdown document.
func (b *Builder) SweepMarkdown(manifest *run.Manifest, summaries []dynamics.TrajectorySummary, universality float64) string {
	var md strings.Builder
	md.WriteString("# Domain Catalog Sweep\n\n")
	fmt.Fprintf(&md, "Run `%s`, seed %d, status %s.\n\n", manifest.RunID, manifest.Seed, manifest.Status)
	fmt.Fprintf(&md, "**Universality: %.0f%%** of domains show bounded non-trivial dynamics.\n\n", universality*100)

	md.WriteString("| Domain | Final | Tail Mean | Tail Std | Regime |\n")
	md.WriteString("|--------|-------|-----------|----------|--------|\n")
	for _, s := range summaries {
		fmt.Fprintf(&md, "| %s | %.4f | %.4f | %.4f | %s |\n",
			s.Profile.Name, s.Final, s.TailMean, s.TailStd, s.Regime)
	}

	if !manifest.Fingerprint.IsEmpty() {
		fmt.Fprintf(&md, "\nFingerprint: `%s`\n", manifest.Fingerprint)
	}
	return md.String()
}

// ValidationMarkdown renders a relativity suite as a Markdown document.
func (b *Builder) ValidationMarkdown(suite *relativity.SuiteResult) string {
	var md strings.Builder
	md.WriteString("# Relativity Validation Suite\n\n")
	fmt.Fprintf(&md, "Run `%s`: %d passed, %d failed in %s.\n\n",
		suite.RunID, suite.Passed, suite.Failed, suite.Runtime.Round(1e6))

	md.WriteString("| Case | Predicted | Observed | Deviation | Result |\n")
	md.WriteString("|------|-----------|----------|-----------|--------|\n")
	for _, c := range suite.Cases {
		result := "PASS"
		if !c.Passed {
			result = "FAIL"
		}
		fmt.Fprintf(&md, "| %s | %.6g | %.6g | %.4f%% | %s |\n",
			c.Name, c.Predicted, c.Observed, c.Deviation()*100, result)
	}

	for _, c := range suite.Cases {
		if c.Error != "" {
			fmt.Fprintf(&md, "\n- `%s`: %s\n", c.Name, c.Error)
		}
	}
	return md.String()
}

// SignalMarkdown renders recent indicator readings as a Markdown document.
func (b *Builder) SignalMarkdown(readings []*gravity.Reading) string {
	var md strings.Builder
	md.WriteString("# Coherence Signals\n\n")
	if len(readings) == 0 {
		md.WriteString("No signals recorded.\n")
		return md.String()
	}

	md.WriteString("| Source | Score | Signal | Calculated |\n")
	md.WriteString("|--------|-------|--------|------------|\n")
	for _, r := range readings {
		fmt.Fprintf(&md, "| %s | %.4f | %s | %s |\n",
			r.Source, r.Score.Value, r.Signal, r.Score.CalculatedAt.Format("2006-01-02 15:04:05"))
	}
	return md.String()
}

// ToHTML converts a Markdown report to a standalone HTML fragment.
func ToHTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.Tables | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	opts := html.RendererOptions{Flags: html.CommonFlags}
	renderer := html.NewRenderer(opts)
	return markdown.Render(doc, renderer)
}
