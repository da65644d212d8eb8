package config

import "time"

// Provider defines the interface for accessing configuration values.
// All values are immutable after loading.
type Provider interface {
	// GetAddress returns the device address given on the command line
	GetAddress() string

	// GetInterval returns the sampling period
	GetInterval() time.Duration

	// GetTimeout returns the per-request timeout
	GetTimeout() time.Duration

	// GetOutputDir returns the directory artifacts are written to
	GetOutputDir() string

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// IsArchiveEnabled returns whether readings are archived to sqlite
	IsArchiveEnabled() bool

	// GetArchiveDBPath returns the path to the archive database
	GetArchiveDBPath() string
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
