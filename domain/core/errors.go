package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound     = errors.New("resource not found")
	ErrRunNotFound  = fmt.Errorf("%w: run", ErrNotFound)
	ErrCaseNotFound = fmt.Errorf("%w: validation case", ErrNotFound)

	// Numerical errors
	ErrSolverDiverged = errors.New("solver diverged")

	// Calibration errors
	ErrCalibrationFailed = errors.New("threshold calibration failed")
	ErrPopulationOverlap = errors.New("labeled populations overlap")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsCalibrationError(err error) bool {
	return errors.Is(err, ErrCalibrationFailed) ||
		errors.Is(err, ErrPopulationOverlap)
}
