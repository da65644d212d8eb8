package analysis

import "codeberg.org/mutker/shellymon/internal/errors"

const (
	ErrInsufficientData = errors.ErrorCode("analysis_insufficient_data")
	ErrInvalidPeriod    = errors.ErrorCode("analysis_invalid_period")
)
