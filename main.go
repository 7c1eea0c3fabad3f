package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"substratex/adapters/excel"
	"substratex/adapters/postgres"
	"substratex/api"
	"substratex/app"
	"substratex/domain/gravity"
	"substratex/internal/config"
	"substratex/internal/cubic"
	"substratex/internal/errors"
	gravityengine "substratex/internal/gravity"
	"substratex/internal/migration"
	"substratex/internal/relativity"
	"substratex/internal/sweep"
	"substratex/internal/testkit"
	"substratex/ports"
)

// initDatabase connects to PostgreSQL and applies migrations
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.Run(ctx, db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Repositories: PostgreSQL when configured, in-memory otherwise
	var (
		runRepo    ports.RunRepository
		signalRepo ports.SignalRepository
		caseRepo   ports.CaseRepository
	)
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		runRepo = postgres.NewRunRepository(db)
		signalRepo = postgres.NewSignalRepository(db)
		caseRepo = postgres.NewCaseRepository(db)
		log.Println("Using PostgreSQL persistence")
	} else {
		runRepo = testkit.NewInMemoryRunStore()
		signalRepo = testkit.NewInMemorySignalStore()
		caseRepo = testkit.NewInMemoryCaseStore()
		log.Println("No DATABASE_URL configured, using in-memory persistence")
	}

	indicator, err := gravityengine.NewIndicator(gravity.Thresholds{
		Contract: appConfig.Indicator.ContractThreshold,
		Expand:   appConfig.Indicator.ExpandThreshold,
	}, appConfig.Indicator.ScaleFactor)
	if err != nil {
		log.Fatalf("Failed to build indicator: %v", err)
	}

	exporter := excel.NewExporter()

	suite := relativity.NewSuite(appConfig.Solver.SuiteCapacity, appConfig.Solver.CaseTimeout)
	orbitConfig := relativity.DefaultOrbitConfig()
	orbitConfig.DivergeBound = appConfig.Solver.DivergeBound
	suite.SetOrbitConfig(orbitConfig)

	runner := sweep.NewRunner(testkit.NewSeededRNG(), appConfig.Solver.SweepWorkers)
	runner.SetEngine(&cubic.Engine{DT: appConfig.Solver.StepSize, Steps: appConfig.Solver.MaxSteps})

	sweepService := app.NewSweepService(runner, runRepo, exporter, appConfig.Export.Dir)
	validationService := app.NewValidationService(suite, runRepo, caseRepo, exporter, appConfig.Export.Dir)
	indicatorService := app.NewIndicatorService(indicator, runRepo, signalRepo)
	fieldService := app.NewFieldService(runRepo)

	// Ops surface on its own port
	ops := api.NewOpsRouter(indicatorService)
	go func() {
		addr := ":" + appConfig.Server.OpsPort
		log.Printf("Ops server listening on %s", addr)
		if err := http.ListenAndServe(addr, ops.Handler()); err != nil {
			log.Fatalf("Ops server failed: %v", err)
		}
	}()

	server := api.NewServer(appConfig.Server.GinMode, sweepService, validationService, indicatorService, fieldService)
	addr := ":" + appConfig.Server.Port
	log.Printf("API server listening on %s", addr)
	if err := server.Run(addr); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}
