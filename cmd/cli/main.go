package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"substratex/adapters/excel"
	"substratex/adapters/report"
	"substratex/app"
	"substratex/domain/dynamics"
	"substratex/internal/relativity"
	"substratex/internal/sweep"
	"substratex/internal/testkit"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: cli <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sweep     run the domain catalog sweep and print a report")
	fmt.Fprintln(os.Stderr, "  validate  run the relativity validation suite and print a report")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "sweep":
		runSweep(os.Args[2:])
	case "validate":
		runValidation(os.Args[2:])
	default:
		usage()
	}
}

func runSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	seed := fs.Int64("seed", 42, "base seed for domain noise streams")
	workers := fs.Int("workers", sweep.DefaultWorkers, "concurrent domain integrations")
	exportDir := fs.String("export", "", "directory for xlsx export (empty disables export)")
	fs.Parse(args)

	runner := sweep.NewRunner(testkit.NewSeededRNG(), *workers)
	service := app.NewSweepService(runner, testkit.NewInMemoryRunStore(), excel.NewExporter(), *exportDir)

	outcome, err := service.RunSweep(context.Background(), *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
		os.Exit(1)
	}

	summaries := make([]dynamics.TrajectorySummary, 0, len(outcome.Result.Outcomes))
	for _, o := range outcome.Result.Outcomes {
		summaries = append(summaries, o.Summary)
	}
	builder := report.NewBuilder()
	fmt.Print(builder.SweepMarkdown(outcome.Manifest, summaries, outcome.Result.Universality))
}

func runValidation(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	capacity := fs.Int64("capacity", 10, "weighted concurrency capacity")
	timeout := fs.Duration("timeout", 2*time.Minute, "per-case timeout")
	exportDir := fs.String("export", "", "directory for xlsx export (empty disables export)")
	fs.Parse(args)

	suite := relativity.NewSuite(*capacity, *timeout)
	service := app.NewValidationService(suite, testkit.NewInMemoryRunStore(), testkit.NewInMemoryCaseStore(), excel.NewExporter(), *exportDir)

	result, err := service.RunSuite(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
		os.Exit(1)
	}

	builder := report.NewBuilder()
	fmt.Print(builder.ValidationMarkdown(result))
	if !result.Success() {
		os.Exit(1)
	}
}
