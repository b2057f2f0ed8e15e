package perf

import (
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnergyStatistic(t *testing.T) {
	t.Run("MatchesNaiveDefinition", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(defaultSeed, 1))
		for _, n := range []int{2, 3, 7, 40, 151} {
			raw := make([]float64, n)
			for i := range raw {
				raw[i] = rng.NormFloat64()*5 + 10
				if i > n/2 {
					raw[i] += 3
				}
			}
			series := mustSeries(t, raw...)

			for k := 1; k < n; k++ {
				score, err := EnergyStatistic(series, k)
				require.NoError(t, err)
				assertClose(t, naiveEnergyStatistic(raw, k), score, "n=%d k=%d", n, k)
			}
		}
	})
	t.Run("LargeOffsets", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(defaultSeed, 2))
		raw := make([]float64, 60)
		for i := range raw {
			raw[i] = 1e6 + rng.Float64()
		}
		series := mustSeries(t, raw...)
		for _, k := range []int{1, 17, 30, 59} {
			score, err := EnergyStatistic(series, k)
			require.NoError(t, err)
			assertClose(t, naiveEnergyStatistic(raw, k), score, "k=%d", k)
		}
	})
	t.Run("IdenticalSegmentsScoreZero", func(t *testing.T) {
		score, err := EnergyStatistic(mustSeries(t, 1, 2, 1, 2), 2)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)

		score, err = EnergyStatistic(mustSeries(t, 4, 4, 4, 4, 4), 3)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)
	})
	t.Run("NonNegative", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(defaultSeed, 3))
		raw := make([]float64, 50)
		for i := range raw {
			raw[i] = rng.ExpFloat64()
		}
		series := mustSeries(t, raw...)
		for k := 1; k < len(raw); k++ {
			score, err := EnergyStatistic(series, k)
			require.NoError(t, err)
			assert.True(t, score >= -1e-9, "k=%d score=%f", k, score)
		}
	})
	t.Run("KnownValue", func(t *testing.T) {
		// between 4, right within 32/9, weight 3/4
		score, err := EnergyStatistic(mustSeries(t, 1, 2, 3, 10), 1)
		require.NoError(t, err)
		assertClose(t, 10.0/3.0, score)
	})
	t.Run("InvalidSplit", func(t *testing.T) {
		series := mustSeries(t, 1, 2, 3)
		for _, k := range []int{-1, 0, 3, 4} {
			_, err := EnergyStatistic(series, k)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidSplit, errors.Cause(err), "k=%d", k)
		}
		_, err := EnergyStatistic(nil, 0)
		assert.Equal(t, ErrInvalidSplit, errors.Cause(err))
	})
	t.Run("DoesNotMutateInput", func(t *testing.T) {
		series := mustSeries(t, 5, 3, 9, 1, 7)
		before := append([]OrderedValue{}, series...)
		_, err := EnergyStatistic(series, 2)
		require.NoError(t, err)
		assert.Equal(t, before, series)
	})
}
