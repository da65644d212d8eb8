package artifact

import (
	"encoding/csv"
	"io"
	"strconv"

	"codeberg.org/mutker/shellymon/internal/sampler"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

// WriteCSV writes a "timestamp,power" header followed by one row per reading.
func WriteCSV(w io.Writer, readings []sampler.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "power"}); err != nil {
		return err
	}
	for _, r := range readings {
		row := []string{
			r.Timestamp.Format(timestampLayout),
			strconv.FormatFloat(r.Power, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
