package sampler

import "time"

// DefaultPeriod is the target time between successive polls.
const DefaultPeriod = time.Second

// Log is the append-only, ordered sequence of readings of a session.
// Index i holds the i-th successful poll.
type Log struct {
	readings []Reading
}

// NewLog returns a log holding the given readings, mostly useful to
// analyze synthetic data.
func NewLog(readings ...Reading) *Log {
	return &Log{readings: append([]Reading(nil), readings...)}
}

// Append records r and returns its index.
func (l *Log) Append(r Reading) int {
	l.readings = append(l.readings, r)
	return len(l.readings) - 1
}

// Len returns the number of readings recorded.
func (l *Log) Len() int {
	return len(l.readings)
}

// At returns the reading at index i.
func (l *Log) At(i int) Reading {
	return l.readings[i]
}

// Readings returns a copy of the recorded readings.
func (l *Log) Readings() []Reading {
	return append([]Reading(nil), l.readings...)
}

// Session is one monitoring run against a single device.
type Session struct {
	Device string
	Start  time.Time
	Period time.Duration
	Log    *Log
}

// NewSession starts a session for device sampled every period. A
// non-positive period selects DefaultPeriod.
func NewSession(device string, period time.Duration) *Session {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Session{
		Device: device,
		Start:  time.Now(),
		Period: period,
		Log:    &Log{},
	}
}
