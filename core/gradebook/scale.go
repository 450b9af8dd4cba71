package gradebook

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ScaleStep maps every percentage >= Threshold to GPA.
type ScaleStep struct {
	Threshold float64
	GPA       float64
}

// Scale is a step function ordered by descending threshold.
type Scale []ScaleStep

// DefaultScale is the 5.0 scale.
func DefaultScale() Scale {
	return Scale{
		{Threshold: 70, GPA: 5.0},
		{Threshold: 60, GPA: 4.0},
		{Threshold: 50, GPA: 3.0},
		{Threshold: 45, GPA: 2.0},
		{Threshold: 40, GPA: 1.0},
		{Threshold: 0, GPA: 0.0},
	}
}

// Lookup returns the GPA of the first threshold that pct meets or exceeds, or 0.
func (s Scale) Lookup(pct float64) float64 {
	for _, step := range s {
		if pct >= step.Threshold {
			return step.GPA
		}
	}
	return 0.0
}

// ParseScale parses "threshold:gpa" pairs separated by commas, e.g. "70:5,60:4,0:0".
// Steps are sorted by descending threshold. An empty string yields the default scale.
func ParseScale(s string) (Scale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultScale(), nil
	}

	pairs := strings.Split(s, ",")
	scale := make(Scale, 0, len(pairs))
	seen := make(map[float64]bool, len(pairs))
	for _, pair := range pairs {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 {
			return nil, errors.Wrapf(ErrInvalidScale, "%q: expected threshold:gpa", pair)
		}
		threshold, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScale, "%q: bad threshold", pair)
		}
		gpa, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidScale, "%q: bad gpa", pair)
		}
		if seen[threshold] {
			return nil, errors.Wrapf(ErrInvalidScale, "duplicate threshold %g", threshold)
		}
		seen[threshold] = true
		scale = append(scale, ScaleStep{Threshold: threshold, GPA: gpa})
	}
	sort.SliceStable(scale, func(i, j int) bool { return scale[i].Threshold > scale[j].Threshold })
	return scale, nil
}
