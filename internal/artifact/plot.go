package artifact

import (
	"time"

	"codeberg.org/mutker/shellymon/internal/sampler"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 12 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// NewPlot builds a power-over-time line plot of readings.
func NewPlot(readings []sampler.Reading) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Power Consumption Over Time"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Power (W)"
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "15:04:05",
		Time: func(t float64) time.Time {
			return time.Unix(0, int64(t*float64(time.Second))).Local()
		},
	}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(readings))
	for i, r := range readings {
		xys[i].X = float64(r.Timestamp.UnixNano()) / float64(time.Second)
		xys[i].Y = r.Power
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	p.Add(line)

	return p, nil
}

// SavePlot renders readings to path. The image format follows the file
// extension.
func SavePlot(path string, readings []sampler.Reading) error {
	p, err := NewPlot(readings)
	if err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
