package sampler

import (
	"context"
	"time"

	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/logger"
)

// DefaultTimeout bounds a single poll.
const DefaultTimeout = 2 * time.Second

// Sampler polls a PowerSource at a fixed cadence and records readings into
// a Session. It is not safe for concurrent use; the stop signal is the
// context passed to Run.
type Sampler struct {
	source    PowerSource
	session   *Session
	timeout   time.Duration
	observers []Observer
	now       func() time.Time
	state     State
}

type Option func(*Sampler)

// WithTimeout bounds each poll independently of the stop signal.
func WithTimeout(d time.Duration) Option {
	return func(s *Sampler) {
		s.timeout = d
	}
}

// WithObservers registers observers notified of each recorded reading.
func WithObservers(obs ...Observer) Option {
	return func(s *Sampler) {
		s.observers = append(s.observers, obs...)
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) {
		s.now = now
	}
}

// New returns a sampler recording readings from source into session.
func New(source PowerSource, session *Session, opts ...Option) (*Sampler, error) {
	errFactory := errors.New()

	if source == nil {
		return nil, errFactory.New(ErrNoSource)
	}
	if session == nil || session.Period <= 0 {
		return nil, errFactory.New(ErrInvalidPeriod)
	}

	s := &Sampler{
		source:  source,
		session: session,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// State returns the current state of the sampler.
func (s *Sampler) State() State {
	return s.state
}

// Session returns the session the sampler records into.
func (s *Sampler) Session() *Session {
	return s.session
}

// PollOnce reads the device once. It does not record the reading.
func (s *Sampler) PollOnce(ctx context.Context) (Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	power, err := s.source.Power(ctx)
	if err != nil {
		return Reading{}, errors.New().Wrap(ErrPollFailed, err)
	}

	return Reading{
		Timestamp: s.now(),
		Power:     power,
	}, nil
}

// Run polls until ctx is cancelled. Cancellation is observed between
// polls only: a poll in flight runs to completion or to its own timeout,
// and its reading, if any, is still recorded. Run can be called once.
func (s *Sampler) Run(ctx context.Context) error {
	if s.state != Idle {
		return errors.New().WithData(ErrStopped, s.state.String())
	}
	s.state = Running
	defer func() {
		s.state = Stopped
	}()

	pollCtx := context.WithoutCancel(ctx)
	period := s.session.Period

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for ctx.Err() == nil {
		start := time.Now()

		s.tick(pollCtx)

		wait := period - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}

	logger.Debug().
		Int("samples", s.session.Log.Len()).
		Msg("Sampler stopped")

	return nil
}

func (s *Sampler) tick(ctx context.Context) {
	r, err := s.PollOnce(ctx)
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.WarnWithCode(appErr).Msg("Error reading power")
		}
		return
	}

	index := s.session.Log.Append(r)
	for _, o := range s.observers {
		o.Observe(index, r)
	}
}
