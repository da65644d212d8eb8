package analysis

import "codeberg.org/mutker/shellymon/internal/sampler"

// Detector tracks change events as readings arrive. Values are compared
// for exact equality: any difference in the reported power, however
// small, is a change.
type Detector struct {
	seen    bool
	last    float64
	changes []int
}

// NewDetector returns an empty Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Observe implements sampler.Observer.
func (d *Detector) Observe(index int, r sampler.Reading) {
	if d.seen && r.Power != d.last {
		d.changes = append(d.changes, index)
	}
	d.seen = true
	d.last = r.Power
}

// Changes returns the indices at which the power changed so far.
func (d *Detector) Changes() []int {
	return append([]int(nil), d.changes...)
}

// DetectChanges returns the indices of the readings whose power differs
// from the preceding reading.
func DetectChanges(readings []sampler.Reading) []int {
	d := NewDetector()
	for i, r := range readings {
		d.Observe(i, r)
	}
	return d.changes
}

// Gaps returns the number of samples between consecutive change indices.
func Gaps(changes []int) []int {
	if len(changes) < 2 {
		return nil
	}
	gaps := make([]int, 0, len(changes)-1)
	for i := 1; i < len(changes); i++ {
		gaps = append(gaps, changes[i]-changes[i-1])
	}
	return gaps
}
