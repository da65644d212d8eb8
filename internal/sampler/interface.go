package sampler

import (
	"context"
	"time"
)

// PowerSource returns the instantaneous power reported by a device.
type PowerSource interface {
	Power(ctx context.Context) (float64, error)
}

// Observer is notified of every reading appended to the log, in order.
// index is the reading's position in the log.
type Observer interface {
	Observe(index int, r Reading)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(index int, r Reading)

func (f ObserverFunc) Observe(index int, r Reading) {
	f(index, r)
}

// Reading is one timestamped power measurement.
type Reading struct {
	Timestamp time.Time
	Power     float64
}

// State of a Sampler.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
