package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"substratex/domain/dynamics"
	"substratex/domain/relativity"
	"substratex/domain/run"
	"substratex/internal/errors"
	"substratex/ports"
)

// Exporter writes run outputs as Excel workbooks
type Exporter struct{}

// NewExporter creates an Excel exporter
func NewExporter() ports.ExporterPort {
	return &Exporter{}
}

// ExportSweep writes the per-domain sweep summaries to an xlsx workbook
func (e *Exporter) ExportSweep(ctx context.Context, manifest *run.Manifest, summaries []dynamics.TrajectorySummary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sweep"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Domain", "Name", "Alpha", "Beta", "Final", "Tail Mean", "Tail Std", "Regime"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, s := range summaries {
		row := i + 2
		values := []interface{}{
			s.Profile.Key.String(), s.Profile.Name, s.Profile.Alpha, s.Profile.Beta,
			s.Final, s.TailMean, s.TailStd, string(s.Regime),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Run metadata on a second sheet for auditability
	if _, err := f.NewSheet("Run"); err != nil {
		return errors.Wrap(err, "failed to create run sheet")
	}
	f.SetCellValue("Run", "A1", "Run ID")
	f.SetCellValue("Run", "B1", manifest.RunID.String())
	f.SetCellValue("Run", "A2", "Kind")
	f.SetCellValue("Run", "B2", string(manifest.Kind))
	f.SetCellValue("Run", "A3", "Seed")
	f.SetCellValue("Run", "B3", manifest.Seed)
	f.SetCellValue("Run", "A4", "Fingerprint")
	f.SetCellValue("Run", "B4", manifest.Fingerprint.String())
	f.SetCellValue("Run", "A5", "Status")
	f.SetCellValue("Run", "B5", string(manifest.Status))

	return save(f, path)
}

// ExportValidation writes suite case results to an xlsx workbook
func (e *Exporter) ExportValidation(ctx context.Context, suite *relativity.SuiteResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Validation"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Case", "Predicted", "Observed", "Deviation %", "Tolerance %", "Passed", "Detail", "Error"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, c := range suite.Cases {
		row := i + 2
		values := []interface{}{
			string(c.Name), c.Predicted, c.Observed,
			c.Deviation() * 100, c.Tolerance * 100, c.Passed, c.Detail, c.Error,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	summaryRow := len(suite.Cases) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheet, cell, fmt.Sprintf("Passed %d/%d (run %s)",
		suite.Passed, len(suite.Cases), suite.RunID))

	return save(f, path)
}

func save(f *excelize.File, path string) error {
	if path == "" {
		return errors.InvalidInput("export path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.ExportFailed(path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.ExportFailed(path, err)
	}
	return nil
}
