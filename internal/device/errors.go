package device

import "codeberg.org/mutker/shellymon/internal/errors"

const (
	ErrInvalidAddress  = errors.ErrorCode("device_invalid_address")
	ErrRequestFailed   = errors.ErrorCode("device_request_failed")
	ErrUnexpectedState = errors.ErrorCode("device_unexpected_status")
	ErrMalformedBody   = errors.ErrorCode("device_malformed_response")
	ErrNoMeters        = errors.ErrorCode("device_no_meters")
	ErrMissingPower    = errors.ErrorCode("device_missing_power")
)
