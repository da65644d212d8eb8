package archive

import (
	"context"

	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/logger"
	"codeberg.org/mutker/shellymon/internal/sampler"
)

type service struct {
	repo      Repository
	cfg       Config
	sessionID int64
}

// No-op implementation
type noopArchive struct{}

func NewService(cfg Config, log logger.Logger) (Archive, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Reading archive disabled, using no-op archive")
		return &noopArchive{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Archive service initialized successfully")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) BeginSession(ctx context.Context, session SessionInfo) error {
	id, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return errors.New().Wrap(ErrRecordReadings, err)
	}
	s.sessionID = id
	return nil
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	errFactory := errors.New()

	if s.sessionID == 0 {
		return errFactory.New(ErrNoSession)
	}
	entry.SessionID = s.sessionID

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(entry); err != nil {
			return errFactory.Wrap(ErrRecordReadings, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*service) Enabled() bool {
	return true
}

func (*noopArchive) BeginSession(_ context.Context, _ SessionInfo) error {
	return nil
}

func (*noopArchive) Record(_ context.Context, _ Entry) error {
	return nil
}

func (*noopArchive) Close() error {
	return nil
}

func (*noopArchive) Enabled() bool {
	return false
}

// Observer adapts a to a sampler.Observer. Archive failures are logged and
// never interrupt sampling.
func Observer(a Archive, log logger.Logger) sampler.Observer {
	return sampler.ObserverFunc(func(index int, r sampler.Reading) {
		err := a.Record(context.Background(), Entry{
			Index:     index,
			Timestamp: r.Timestamp,
			Power:     r.Power,
		})
		var appErr errors.Error
		if errors.As(err, &appErr) {
			log.ErrorWithCode(appErr).Int("index", index).Msg("Failed to archive reading")
		}
	})
}
