package timeline

import (
	"encoding/json"
	"fmt"
)

// Point represents a single labelled value of a series
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// UnmarshalJSON accepts both "label" and "name" for the point label, since
// the remote chart payloads use the latter.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label *string  `json:"label"`
		Name  *string  `json:"name"`
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Value == nil {
		return fmt.Errorf("point is missing a value")
	}

	p.Value = *raw.Value
	p.Label = ""
	switch {
	case raw.Label != nil:
		p.Label = *raw.Label
	case raw.Name != nil:
		p.Label = *raw.Name
	}
	return nil
}

// Series is an ordered list of points, oldest first
type Series []Point

// Values extracts the point values in series order
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Labels extracts the point labels in series order
func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// Clone returns a copy that shares no backing array with s
func (s Series) Clone() Series {
	if s == nil {
		return Series{}
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}
