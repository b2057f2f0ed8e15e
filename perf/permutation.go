package perf

import (
	"context"
	"runtime"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// PermutationTestResult describes the observed best split and how it
// ranks against the best splits of shuffled copies of the series.
type PermutationTestResult struct {
	Index        int     `bson:"index" json:"index" yaml:"index"`
	Statistic    float64 `bson:"statistic" json:"statistic" yaml:"statistic"`
	Exceeding    int     `bson:"exceeding" json:"exceeding" yaml:"exceeding"`
	Permutations int     `bson:"permutations" json:"permutations" yaml:"permutations"`
	PValue       float64 `bson:"p_value" json:"p_value" yaml:"p_value"`

	// Null holds the best statistic of each permutation, by trial.
	Null []float64 `bson:"null" json:"null,omitempty" yaml:"null,omitempty"`
}

// NullSummary is a digest of the permutation distribution.
type NullSummary struct {
	Mean         float64 `bson:"mean" json:"mean" yaml:"mean"`
	StdDev       float64 `bson:"std_dev" json:"std_dev" yaml:"std_dev"`
	Median       float64 `bson:"median" json:"median" yaml:"median"`
	Percentile95 float64 `bson:"percentile_95" json:"percentile_95" yaml:"percentile_95"`
	Max          float64 `bson:"max" json:"max" yaml:"max"`
}

// Significant reports whether the observed split is significant at
// level alpha.
func (r *PermutationTestResult) Significant(alpha float64) bool { return r.PValue <= alpha }

func (r *PermutationTestResult) Summary() (NullSummary, error) {
	data := stats.Float64Data(r.Null)
	out := NullSummary{}
	catcher := grip.NewBasicCatcher()

	var err error
	out.Mean, err = data.Mean()
	catcher.Add(err)
	out.StdDev, err = data.StandardDeviation()
	catcher.Add(err)
	out.Median, err = data.Median()
	catcher.Add(err)
	out.Percentile95, err = data.Percentile(95)
	catcher.Add(err)
	out.Max, err = data.Max()
	catcher.Add(err)

	if catcher.HasErrors() {
		return NullSummary{}, errors.Wrap(catcher.Resolve(), "problem summarizing permutation scores")
	}
	return out, nil
}

// PermutationTest runs ParallelPermutationTest with one worker per
// available processor.
func PermutationTest(ctx context.Context, est Estimator, src Source, numPermutations int, series []OrderedValue) (*PermutationTestResult, error) {
	return ParallelPermutationTest(ctx, est, src, numPermutations, 0, series)
}

// ParallelPermutationTest estimates the change point of series and then
// re-estimates numPermutations shuffled copies on at most workers
// goroutines (GOMAXPROCS when workers is less than one). Trial t always
// shuffles with src.Stream(t), so the result does not depend on the
// worker count. The p-value is (c+1)/(numPermutations+1), where c is the
// number of trials scoring at least the observed statistic.
//
// The estimator must be safe for concurrent use. Any failure aborts the
// whole test.
func ParallelPermutationTest(ctx context.Context, est Estimator, src Source, numPermutations, workers int, series []OrderedValue) (*PermutationTestResult, error) {
	if numPermutations < 1 {
		return nil, errors.Wrapf(ErrDegenerateInput, "at least one permutation is required, not %d", numPermutations)
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	observed, err := est.Estimate(series)
	if err != nil {
		return nil, errors.Wrap(err, "problem estimating the observed series")
	}

	null := make([]float64, numPermutations)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := 0; trial < numPermutations; trial++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.WithStack(err)
			}

			permutation := append([]OrderedValue{}, series...)
			rng := src.Stream(uint64(trial))
			rng.Shuffle(len(permutation), func(i, j int) {
				permutation[i], permutation[j] = permutation[j], permutation[i]
			})

			result, err := est.Estimate(permutation)
			if err != nil {
				return errors.Wrapf(err, "problem estimating permutation %d", trial)
			}
			null[trial] = result.Statistic
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "permutation test aborted")
	}

	exceeding := 0
	for _, score := range null {
		if score >= observed.Statistic {
			exceeding++
		}
	}

	result := &PermutationTestResult{
		Index:        observed.Index,
		Statistic:    observed.Statistic,
		Exceeding:    exceeding,
		Permutations: numPermutations,
		PValue:       float64(exceeding+1) / float64(numPermutations+1),
		Null:         null,
	}

	grip.Debug(message.Fields{
		"message":      "completed permutation test",
		"algorithm":    est.Info().Name,
		"series_len":   len(series),
		"permutations": numPermutations,
		"workers":      workers,
		"index":        result.Index,
		"p_value":      result.PValue,
		"elapsed_secs": time.Since(start).Seconds(),
	})

	return result, nil
}
