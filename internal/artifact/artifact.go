// Package artifact writes the output files of a monitoring session.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/shellymon/internal/analysis"
	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/logger"
	"codeberg.org/mutker/shellymon/internal/sampler"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
	stampLayout     = "20060102_150405"
)

// Paths holds the artifact locations of a session.
type Paths struct {
	CSV      string
	Plot     string
	Analysis string
}

// PathsFor derives collision-free filenames from the session start time.
func PathsFor(dir string, start time.Time) Paths {
	stamp := start.Format(stampLayout)
	return Paths{
		CSV:      filepath.Join(dir, fmt.Sprintf("shelly_power_%s.csv", stamp)),
		Plot:     filepath.Join(dir, fmt.Sprintf("shelly_power_%s.png", stamp)),
		Analysis: filepath.Join(dir, fmt.Sprintf("shelly_analysis_%s.txt", stamp)),
	}
}

// Result describes what Generate produced.
type Result struct {
	// Written is false when the session had no data and nothing was created.
	Written  bool
	Paths    Paths
	Analysis string
}

// Generate writes the CSV, plot and analysis files for session into dir.
// changes are the change indices observed while sampling; nil means they
// are detected from the log. A session without readings produces nothing.
func Generate(dir string, session *sampler.Session, changes []int) (Result, error) {
	errFactory := errors.New()

	readings := session.Log.Readings()
	if len(readings) == 0 {
		logger.Warn().Str("device", session.Device).Msg("No data collected!")
		return Result{}, nil
	}

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return Result{}, errFactory.WithData(ErrCreateDir, struct {
			Path  string
			Error string
		}{
			Path:  dir,
			Error: err.Error(),
		})
	}

	paths := PathsFor(dir, session.Start)

	if err := writeFile(paths.CSV, func(f *os.File) error { return WriteCSV(f, readings) }); err != nil {
		return Result{}, errFactory.Wrap(ErrWriteCSV, err)
	}
	logger.Info().Str("path", paths.CSV).Msg("Data saved")

	if err := SavePlot(paths.Plot, readings); err != nil {
		return Result{}, errFactory.Wrap(ErrRenderPlot, err)
	}
	logger.Info().Str("path", paths.Plot).Msg("Plot saved")

	if changes == nil {
		changes = analysis.DetectChanges(readings)
	}
	text, err := analysis.Text(analysis.SummarizeChanges(changes, len(readings), session.Period))
	if err != nil {
		return Result{}, errFactory.Wrap(ErrWriteReport, err)
	}
	if err := os.WriteFile(paths.Analysis, []byte(text), defaultFilePerm); err != nil {
		return Result{}, errFactory.Wrap(ErrWriteReport, err)
	}
	logger.Info().Str("path", paths.Analysis).Msg("Analysis saved")

	return Result{
		Written:  true,
		Paths:    paths,
		Analysis: text,
	}, nil
}

func writeFile(path string, write func(*os.File) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultFilePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
