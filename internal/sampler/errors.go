package sampler

import "codeberg.org/mutker/shellymon/internal/errors"

const (
	ErrPollFailed    = errors.ErrorCode("sampler_poll_failed")
	ErrStopped       = errors.ErrorCode("sampler_stopped")
	ErrInvalidPeriod = errors.ErrorCode("sampler_invalid_period")
	ErrNoSource      = errors.ErrorCode("sampler_no_source")
)
