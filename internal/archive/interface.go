package archive

import (
	"context"
	"time"
)

// Archive stores the readings of monitoring sessions. It is write-only:
// nothing in shellymon reads an archive back.
type Archive interface {
	BeginSession(ctx context.Context, session SessionInfo) error
	Record(ctx context.Context, entry Entry) error
	Close() error
	Enabled() bool
}

// Repository defines the interface for archive storage
type Repository interface {
	CreateSession(ctx context.Context, session SessionInfo) (int64, error)
	Record(entry Entry) error
	Flush() error
	Close() error
}

// SessionInfo describes a monitoring session.
type SessionInfo struct {
	Device string
	Start  time.Time
	Period time.Duration
}

// Entry is one archived reading.
type Entry struct {
	SessionID int64
	Index     int
	Timestamp time.Time
	Power     float64
}
