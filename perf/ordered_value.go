package perf

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// OrderedValue is a finite float64. Values are only created through
// NewOrderedValue, so every OrderedValue compares totally against every
// other.
type OrderedValue struct {
	v float64
}

// NewOrderedValue admits x, failing with ErrInvalidValue for NaN or
// infinite input.
func NewOrderedValue(x float64) (OrderedValue, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return OrderedValue{}, errors.Wrapf(ErrInvalidValue, "%s is not a finite floating point number", strconv.FormatFloat(x, 'g', -1, 64))
	}

	return OrderedValue{v: x}, nil
}

// NewOrderedSeries converts every value of series, reporting the index
// of the first value that cannot be admitted.
func NewOrderedSeries(series []float64) ([]OrderedValue, error) {
	out := make([]OrderedValue, len(series))
	for idx, x := range series {
		v, err := NewOrderedValue(x)
		if err != nil {
			return nil, errors.Wrapf(err, "observation %d", idx)
		}
		out[idx] = v
	}

	return out, nil
}

// Values unwraps a series.
func Values(series []OrderedValue) []float64 {
	out := make([]float64, len(series))
	for idx := range series {
		out[idx] = series[idx].v
	}
	return out
}

func (o OrderedValue) Value() float64 { return o.v }

// Compare returns -1, 0 or 1. Negative and positive zero are equal.
func (o OrderedValue) Compare(other OrderedValue) int {
	switch {
	case o.v < other.v:
		return -1
	case o.v > other.v:
		return 1
	default:
		return 0
	}
}

func (o OrderedValue) Less(other OrderedValue) bool { return o.v < other.v }

func (o OrderedValue) String() string { return strconv.FormatFloat(o.v, 'g', -1, 64) }

func (o OrderedValue) MarshalJSON() ([]byte, error) { return json.Marshal(o.v) }

func (o *OrderedValue) UnmarshalJSON(data []byte) error {
	var x float64
	if err := json.Unmarshal(data, &x); err != nil {
		return errors.WithStack(err)
	}

	v, err := NewOrderedValue(x)
	if err != nil {
		return err
	}
	*o = v

	return nil
}

func (o OrderedValue) MarshalYAML() (interface{}, error) { return o.v, nil }

func (o *OrderedValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var x float64
	if err := unmarshal(&x); err != nil {
		return errors.WithStack(err)
	}

	v, err := NewOrderedValue(x)
	if err != nil {
		return err
	}
	*o = v

	return nil
}
