package perf

import (
	"math"

	"github.com/pkg/errors"
)

// EDMX locates a single change point by maximizing the energy statistic
// over every split that leaves at least delta observations on each side.
type EDMX struct {
	delta int
	info  AlgorithmInfo
}

// NewEDMX returns an estimator with the given minimum segment length.
func NewEDMX(delta int) (*EDMX, error) {
	if delta < 1 {
		return nil, errors.Wrapf(ErrDegenerateInput, "delta must be at least 1, not %d", delta)
	}

	return &EDMX{
		delta: delta,
		info: AlgorithmInfo{
			Name:    "edm_x",
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

func (e *EDMX) Delta() int          { return e.delta }
func (e *EDMX) Info() AlgorithmInfo { return e.info }

// Estimate returns the admissible split with the largest statistic. Ties
// go to the lowest index.
func (e *EDMX) Estimate(series []OrderedValue) (EstimationResult, error) {
	scores, err := e.Scores(series)
	if err != nil {
		return EstimationResult{}, err
	}

	return bestSplit(scores, e.delta), nil
}

// Scores returns the statistic for every admissible split k at scores[k].
// Entries outside [delta, n-delta] are zero.
//
// Every observation's distances to the observations before and after it
// are summed once. Prefix sums of those give the left pair sums and
// suffix sums give the right pair sums, so neither is ever decremented.
// The cross sum is taken from whichever side is shorter.
func (e *EDMX) Scores(series []OrderedValue) ([]float64, error) {
	if err := checkLength(series, e.delta); err != nil {
		return nil, err
	}

	n := len(series)
	x := Values(series)

	toLeft := make([]float64, n)
	toRight := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Abs(x[i] - x[j])
			toRight[i] += d
			toLeft[j] += d
		}
	}

	// withinLeft[k] and leftToRight[k] cover observations [0,k);
	// withinRight[k] and rightToLeft[k] cover [k,n).
	withinLeft := make([]float64, n+1)
	leftToRight := make([]float64, n+1)
	for k := 1; k <= n; k++ {
		withinLeft[k] = withinLeft[k-1] + toLeft[k-1]
		leftToRight[k] = leftToRight[k-1] + toRight[k-1]
	}
	withinRight := make([]float64, n+1)
	rightToLeft := make([]float64, n+1)
	for k := n - 1; k >= 0; k-- {
		withinRight[k] = withinRight[k+1] + toRight[k]
		rightToLeft[k] = rightToLeft[k+1] + toLeft[k]
	}

	scores := make([]float64, n)
	for k := e.delta; k <= n-e.delta; k++ {
		var between float64
		if 2*k <= n {
			between = leftToRight[k] - withinLeft[k]
		} else {
			between = rightToLeft[k] - withinRight[k]
		}
		scores[k] = energy(k, n-k, withinLeft[k], withinRight[k], between)
	}

	return scores, nil
}

func checkLength(series []OrderedValue, delta int) error {
	if len(series) < 2*delta+1 {
		return errors.Wrapf(ErrDegenerateInput,
			"the series has %d elements, but it needs at least %d elements to be used with delta %d",
			len(series), 2*delta+1, delta)
	}
	return nil
}

func bestSplit(scores []float64, delta int) EstimationResult {
	n := len(scores)
	best := EstimationResult{Index: delta, Statistic: scores[delta]}
	for k := delta + 1; k <= n-delta; k++ {
		if scores[k] > best.Statistic {
			best = EstimationResult{Index: k, Statistic: scores[k]}
		}
	}
	return best
}
