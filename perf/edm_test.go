package perf

import (
	"math"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedianEDMX(t *testing.T) {
	t.Run("InvalidDelta", func(t *testing.T) {
		_, err := NewMedianEDMX(0)
		require.Error(t, err)
		assert.Equal(t, ErrDegenerateInput, errors.Cause(err))
	})
	t.Run("TooShort", func(t *testing.T) {
		d, err := NewMedianEDMX(4)
		require.NoError(t, err)
		assert.Equal(t, 4, d.Delta())
		assert.Equal(t, "e_divisive_with_medians", d.Info().Name)

		_, err = d.Estimate(make([]OrderedValue, 8))
		require.Error(t, err)
		assert.Equal(t, ErrDegenerateInput, errors.Cause(err))
	})
	t.Run("ScoresMatchDefinition", func(t *testing.T) {
		series := normalSeries(t, defaultSeed,
			segment{size: 31, mean: 0, sigma: 1},
			segment{size: 30, mean: 2, sigma: 1},
		)
		d, err := NewMedianEDMX(3)
		require.NoError(t, err)
		scores, err := d.Scores(series)
		require.NoError(t, err)

		n := len(series)
		for k := 3; k <= n-3; k++ {
			left := append(sortedList{}, Values(series[:k])...)
			right := append(sortedList{}, Values(series[k:])...)
			sort.Float64s(left)
			sort.Float64s(right)
			expected := float64(k*(n-k)) / float64(n) * math.Pow(left.Median()-right.Median(), 2)
			assertClose(t, expected, scores[k], "k=%d", k)
		}
	})
	t.Run("BalancedLevelShift", func(t *testing.T) {
		series := normalSeries(t, defaultSeed,
			segment{size: 100, mean: 0, sigma: 1},
			segment{size: 100, mean: 25, sigma: 1},
		)
		d, err := NewMedianEDMX(10)
		require.NoError(t, err)
		result, err := d.Estimate(series)
		require.NoError(t, err)
		assert.InDelta(t, 100, result.Index, 15)
	})
	t.Run("Fixtures", func(t *testing.T) {
		for _, name := range []string{"TestLevelShift", "TestOutlierShift"} {
			fixture := &EDMXFixture{}
			require.NoError(t, LoadFixture(name, fixture))

			d, err := NewMedianEDMX(fixture.Delta)
			require.NoError(t, err)
			result, err := d.Estimate(mustSeries(t, fixture.Series...))
			require.NoError(t, err)
			assert.Equal(t, fixture.Expected, result.Index, name)
		}
	})
	t.Run("ConstantSeries", func(t *testing.T) {
		d, err := NewMedianEDMX(2)
		require.NoError(t, err)
		result, err := d.Estimate(mustSeries(t, 3, 3, 3, 3, 3, 3))
		require.NoError(t, err)
		assert.Equal(t, EstimationResult{Index: 2, Statistic: 0}, result)
	})
}
