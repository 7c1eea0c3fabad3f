package app

import (
	"context"
	"time"

	domain "substratex/domain/gravity"
	"substratex/domain/run"
	"substratex/internal"
	"substratex/internal/gravity"
	"substratex/ports"
)

// IndicatorService evaluates the information-gravity risk indicator and
// records the resulting signals.
type IndicatorService struct {
	indicator  *gravity.Indicator
	runRepo    ports.RunRepository
	signalRepo ports.SignalRepository
	logger     *internal.Logger
}

// NewIndicatorService wires an indicator service.
func NewIndicatorService(indicator *gravity.Indicator, runRepo ports.RunRepository, signalRepo ports.SignalRepository) *IndicatorService {
	return &IndicatorService{
		indicator:  indicator,
		runRepo:    runRepo,
		signalRepo: signalRepo,
		logger:     internal.DefaultLogger,
	}
}

// Evaluate scores a weight distribution and activity series, then
// persists the reading under a fresh indicator run.
func (s *IndicatorService) Evaluate(ctx context.Context, weights, series []float64, source string) (*domain.Reading, error) {
	manifest := run.NewManifest(run.KindIndicator, 0, map[string]interface{}{
		"source":      source,
		"weights":     len(weights),
		"series_len":  len(series),
	})
	if err := s.runRepo.Create(ctx, manifest); err != nil {
		return nil, err
	}
	manifest.Start()
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}

	started := time.Now()
	reading, err := s.indicator.Evaluate(weights, series, source)
	if err != nil {
		manifest.Fail(err)
		if updateErr := s.runRepo.Update(ctx, manifest); updateErr != nil {
			s.logger.Error("failed to record indicator failure: %v", updateErr)
		}
		return nil, err
	}

	if err := s.signalRepo.Create(ctx, manifest.RunID, reading); err != nil {
		s.logger.Error("failed to persist signal: %v", err)
	}

	manifest.Counts[string(reading.Signal)] = 1
	manifest.Complete("", time.Since(started).Milliseconds())
	if err := s.runRepo.Update(ctx, manifest); err != nil {
		return nil, err
	}

	s.logger.Info("indicator %s: score %.4f signal %s", source, reading.Score.Value, reading.Signal)
	return reading, nil
}

// RecentSignals lists the latest persisted readings.
func (s *IndicatorService) RecentSignals(ctx context.Context, limit int) ([]*domain.Reading, error) {
	return s.signalRepo.ListRecent(ctx, limit)
}

// Calibrate derives signal thresholds from a historical score sample.
func (s *IndicatorService) Calibrate(scores []float64) (domain.Thresholds, error) {
	return gravity.Calibrate(scores)
}
