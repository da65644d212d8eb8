package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/shellymon/internal/analysis"
	"codeberg.org/mutker/shellymon/internal/archive"
	"codeberg.org/mutker/shellymon/internal/artifact"
	"codeberg.org/mutker/shellymon/internal/config"
	"codeberg.org/mutker/shellymon/internal/device"
	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/logger"
	"codeberg.org/mutker/shellymon/internal/pid"
	"codeberg.org/mutker/shellymon/internal/sampler"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	interactive := !logger.IsService()
	logger.Init(cfg.LogLevel, !interactive)
	logger.Debug().Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	var status io.Writer
	if interactive {
		status = os.Stdout
	}

	if err := run(ctx, cfg, status); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("shellymon failed")
		} else {
			logger.Error().Err(err).Msg("shellymon failed")
		}
		os.Exit(1)
	}
}

// run monitors the configured device until ctx is cancelled, then writes
// the session's artifacts. status receives the live status line and the
// final summary; it may be nil.
func run(ctx context.Context, cfg *config.Config, status io.Writer) error {
	errFactory := errors.New()

	if err := pid.Write(cfg.OutputDir); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.OutputDir); err != nil {
			logger.Warn().Err(err).Msg("failed to remove pid file")
		}
	}()

	client, err := device.New(cfg.Address, device.WithTimeout(cfg.Timeout))
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	session := sampler.NewSession(cfg.Address, cfg.Interval)

	store, err := openArchive(ctx, cfg, session)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close archive")
		}
	}()

	detector := analysis.NewDetector()
	observers := []sampler.Observer{detector, archive.Observer(store, logger.Default())}
	if status != nil {
		observers = append(observers, statusLine(status))
	}

	s, err := sampler.New(client, session,
		sampler.WithTimeout(cfg.Timeout),
		sampler.WithObservers(observers...),
	)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	logger.Info().
		Str("device", client.URL()).
		Dur("interval", cfg.Interval).
		Msgf("Monitoring Shelly Plug S at %s", cfg.Address)
	if status != nil {
		fmt.Fprintln(status, "Press CTRL+C to stop...")
	}

	if err := s.Run(ctx); err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}
	if status != nil {
		fmt.Fprintln(status)
	}

	result, err := artifact.Generate(cfg.OutputDir, session, detector.Changes())
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteArtifacts, err)
	}
	if !result.Written {
		if status != nil {
			fmt.Fprintln(status, "No data collected!")
		}
		return nil
	}

	if status != nil {
		fmt.Fprintf(status, "\nAnalysis Summary:\n%s\n", result.Analysis)
	}
	logger.Info().Msg("Exiting...")

	return nil
}

func openArchive(ctx context.Context, cfg *config.Config, session *sampler.Session) (archive.Archive, error) {
	acfg := archive.DefaultConfig()
	acfg.Enabled = cfg.Archive
	acfg.DBPath = cfg.ArchiveDB
	acfg.BatchSize = cfg.ArchiveBatchSize

	store, err := archive.NewService(acfg, logger.Default())
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInitArchive, err)
	}

	err = store.BeginSession(ctx, archive.SessionInfo{
		Device: session.Device,
		Start:  session.Start,
		Period: session.Period,
	})
	if err != nil {
		store.Close()
		return nil, errors.New().Wrap(errors.ErrInitArchive, err)
	}

	return store, nil
}

func statusLine(w io.Writer) sampler.Observer {
	return sampler.ObserverFunc(func(index int, r sampler.Reading) {
		fmt.Fprintf(w, "\rPower: %6.2f W | Time: %s | Samples: %d",
			r.Power, r.Timestamp.Format("15:04:05"), index+1)
	})
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Stopping monitoring...")
	cancel()
}
