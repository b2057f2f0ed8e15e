package perf

import (
	"sort"

	"github.com/pkg/errors"
)

// EnergyStatistic scores the split of series into [0,k) and [k,n):
//
//	(n1*n2/(n1+n2)) * (2*between - withinLeft - withinRight)
//
// where each term is the mean absolute difference over all pairs of the
// named kind. It is zero when both segments have the same empirical
// distribution and positive otherwise. Both segments must be non-empty.
func EnergyStatistic(series []OrderedValue, k int) (float64, error) {
	n := len(series)
	if k < 1 || k > n-1 {
		return 0, errors.Wrapf(ErrInvalidSplit, "split %d of a series of length %d", k, n)
	}

	left := make(sortedList, k)
	right := make(sortedList, n-k)
	for idx := range series {
		if idx < k {
			left[idx] = series[idx].v
		} else {
			right[idx-k] = series[idx].v
		}
	}
	sort.Float64s(left)
	sort.Float64s(right)

	return energy(k, n-k, left.PairwiseSum(), right.PairwiseSum(), crossSum(left, right)), nil
}

// energy combines raw pair sums into the statistic. withinLeft and
// withinRight count every unordered pair once; the means run over all n^2
// ordered pairs of a segment, self pairs included, which keeps the
// statistic non-negative.
func energy(n1, n2 int, withinLeft, withinRight, between float64) float64 {
	left := float64(n1)
	right := float64(n2)

	meanLeft := 2 * withinLeft / (left * left)
	meanRight := 2 * withinRight / (right * right)
	meanBetween := between / (left * right)

	return (left * right / (left + right)) * (2*meanBetween - meanLeft - meanRight)
}
