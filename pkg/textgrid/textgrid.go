// Package textgrid reads and writes Praat TextGrid annotation files in
// the long text format and exposes their interval labels for rewriting.
package textgrid

import (
	"fmt"

	yerrors "github.com/temporal-IPA/yidmfa/internal/errors"
)

// Tier classes as written in the file.
const (
	ClassInterval = "IntervalTier"
	ClassPoint    = "TextTier"
)

// Interval is a labelled time span.
type Interval struct {
	Start float64
	End   float64
	Label string
}

// Point is a labelled instant of a point tier.
type Point struct {
	Time float64
	Mark string
}

// Tier is a named annotation channel. Interval tiers carry Intervals,
// point tiers carry Points.
type Tier struct {
	Name      string
	Class     string
	XMin      float64
	XMax      float64
	Intervals []Interval
	Points    []Point
}

// IsInterval reports whether t is an interval tier.
func (t *Tier) IsInterval() bool { return t.Class == ClassInterval }

// TextGrid is one annotation document.
type TextGrid struct {
	XMin  float64
	XMax  float64
	Tiers []*Tier
}

// Tier returns the first tier called name, or nil.
func (tg *TextGrid) Tier(name string) *Tier {
	for _, t := range tg.Tiers {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TierNames returns the tier names in file order.
func (tg *TextGrid) TierNames() []string {
	names := make([]string, len(tg.Tiers))
	for i, t := range tg.Tiers {
		names[i] = t.Name
	}
	return names
}

// MapLabels replaces every interval label with f(label). Interval count
// and boundaries are left untouched; point tiers are skipped.
func (tg *TextGrid) MapLabels(f func(string) string) (changed int) {
	for _, t := range tg.Tiers {
		if !t.IsInterval() {
			continue
		}
		for i := range t.Intervals {
			next := f(t.Intervals[i].Label)
			if next != t.Intervals[i].Label {
				changed++
			}
			t.Intervals[i].Label = next
		}
	}
	return changed
}

// Labels returns the non-empty interval labels of every interval tier.
func (tg *TextGrid) Labels() []string {
	var labels []string
	for _, t := range tg.Tiers {
		if !t.IsInterval() {
			continue
		}
		for _, iv := range t.Intervals {
			if iv.Label != "" {
				labels = append(labels, iv.Label)
			}
		}
	}
	return labels
}

// Validate checks that every interval has a positive duration.
func (tg *TextGrid) Validate() error {
	for _, t := range tg.Tiers {
		for i, iv := range t.Intervals {
			if !(iv.Start < iv.End) || iv.Start < 0 {
				return yerrors.NewParse("TextGrid", "", 0,
					fmt.Sprintf("tier %q interval %d: invalid bounds [%g, %g]", t.Name, i+1, iv.Start, iv.End))
			}
		}
	}
	return nil
}
