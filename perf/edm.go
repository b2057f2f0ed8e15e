package perf

import (
	"math"

	"github.com/pkg/errors"
)

// MedianEDMX is the e-divisive-with-medians flavor of EDM-X. A split is
// scored by the squared distance between the medians of the two
// segments, weighted by k*(n-k)/n, which makes it robust to a handful of
// outliers at the cost of ignoring changes in spread.
type MedianEDMX struct {
	delta int
	info  AlgorithmInfo
}

// NewMedianEDMX returns a median estimator with the given minimum
// segment length.
func NewMedianEDMX(delta int) (*MedianEDMX, error) {
	if delta < 1 {
		return nil, errors.Wrapf(ErrDegenerateInput, "delta must be at least 1, not %d", delta)
	}

	return &MedianEDMX{
		delta: delta,
		info: AlgorithmInfo{
			Name:    "e_divisive_with_medians",
			Version: 1,
			Options: []AlgorithmOption{
				{
					Name:  "delta",
					Value: delta,
				},
			},
		},
	}, nil
}

func (d *MedianEDMX) Delta() int          { return d.delta }
func (d *MedianEDMX) Info() AlgorithmInfo { return d.info }

func (d *MedianEDMX) Estimate(series []OrderedValue) (EstimationResult, error) {
	scores, err := d.Scores(series)
	if err != nil {
		return EstimationResult{}, err
	}

	return bestSplit(scores, d.delta), nil
}

// Scores returns the median statistic for every admissible split k at
// scores[k]. Both segments are kept as sorted lists; each step moves one
// observation across the boundary.
func (d *MedianEDMX) Scores(series []OrderedValue) ([]float64, error) {
	if err := checkLength(series, d.delta); err != nil {
		return nil, err
	}

	n := len(series)
	x := Values(series)
	scores := make([]float64, n)

	left := &sortedList{}
	right := &sortedList{}
	left.Insert(x[:d.delta]...)
	right.Insert(x[d.delta:]...)

	for k := d.delta; k <= n-d.delta; k++ {
		weight := float64(k) * float64(n-k) / float64(n)
		scores[k] = weight * math.Pow(left.Median()-right.Median(), 2.0)

		if k < n-d.delta {
			left.Insert(x[k])
			right.Remove(x[k])
		}
	}

	return scores, nil
}
