package perf

import (
	"context"
	"fmt"

	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

const (
	EDMXAlgorithm       = "edm_x"
	MedianEDMXAlgorithm = "e_divisive_with_medians"

	DefaultDelta        = 30
	DefaultPermutations = 199
	DefaultPValue       = 0.05
	DefaultSeed         = 0x1234
)

var supportedAlgorithms = []string{EDMXAlgorithm, MedianEDMXAlgorithm}

// DetectorOptions configures a permutation-tested single change point
// detector.
type DetectorOptions struct {
	Algorithm    string  `bson:"algorithm" json:"algorithm" yaml:"algorithm"`
	Delta        int     `bson:"delta" json:"delta" yaml:"delta"`
	Permutations int     `bson:"permutations" json:"permutations" yaml:"permutations"`
	PValue       float64 `bson:"p_value" json:"p_value" yaml:"p_value"`
	Seed         uint64  `bson:"seed" json:"seed" yaml:"seed"`
	Workers      int     `bson:"workers" json:"workers" yaml:"workers"`
}

// Validate fills in defaults for unset fields and rejects values that
// cannot be used.
func (o *DetectorOptions) Validate() error {
	if o.Algorithm == "" {
		o.Algorithm = EDMXAlgorithm
	}
	if o.Delta == 0 {
		o.Delta = DefaultDelta
	}
	if o.Permutations == 0 {
		o.Permutations = DefaultPermutations
	}
	if o.PValue == 0 {
		o.PValue = DefaultPValue
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(!utility.StringSliceContains(supportedAlgorithms, o.Algorithm), fmt.Sprintf("'%s' is not a supported algorithm", o.Algorithm))
	catcher.NewWhen(o.Delta < 1, fmt.Sprintf("delta must be positive, not %d", o.Delta))
	catcher.NewWhen(o.Permutations < 1, fmt.Sprintf("permutations must be positive, not %d", o.Permutations))
	catcher.NewWhen(o.PValue <= 0 || o.PValue > 1, fmt.Sprintf("p-value threshold must be in (0, 1], not %g", o.PValue))
	catcher.NewWhen(o.Workers < 0, fmt.Sprintf("workers must not be negative, not %d", o.Workers))

	return catcher.Resolve()
}

// NewEstimator builds the configured estimator.
func (o *DetectorOptions) NewEstimator() (Estimator, error) {
	switch o.Algorithm {
	case MedianEDMXAlgorithm:
		return NewMedianEDMX(o.Delta)
	case EDMXAlgorithm, "":
		return NewEDMX(o.Delta)
	default:
		return nil, errors.Errorf("'%s' is not a supported algorithm", o.Algorithm)
	}
}

// PermutationDetector reports at most one change point: the best split
// of a series, when its permutation p-value is at or below the configured
// threshold.
type PermutationDetector struct {
	opts      DetectorOptions
	estimator Estimator
	source    Source
	info      AlgorithmInfo
}

func NewDetector(opts DetectorOptions) (*PermutationDetector, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detector options")
	}

	est, err := opts.NewEstimator()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info := est.Info()
	info.Options = append(append([]AlgorithmOption{}, info.Options...),
		AlgorithmOption{Name: "permutations", Value: opts.Permutations},
		AlgorithmOption{Name: "p", Value: opts.PValue},
		AlgorithmOption{Name: "seed", Value: opts.Seed},
	)

	return &PermutationDetector{
		opts:      opts,
		estimator: est,
		source:    NewSeededSource(opts.Seed),
		info:      info,
	}, nil
}

// Options returns the validated options.
func (d *PermutationDetector) Options() DetectorOptions { return d.opts }

func (d *PermutationDetector) DetectChanges(ctx context.Context, series []float64) ([]ChangePoint, error) {
	result, err := d.Test(ctx, series)
	if err != nil {
		return nil, err
	}

	return d.ChangePoints(result), nil
}

// Test runs the permutation test on series without applying the
// significance threshold.
func (d *PermutationDetector) Test(ctx context.Context, series []float64) (*PermutationTestResult, error) {
	values, err := NewOrderedSeries(series)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return ParallelPermutationTest(ctx, d.estimator, d.source, d.opts.Permutations, d.opts.Workers, values)
}

// ChangePoints applies the significance threshold to a test result.
func (d *PermutationDetector) ChangePoints(result *PermutationTestResult) []ChangePoint {
	if result == nil || !result.Significant(d.opts.PValue) {
		return []ChangePoint{}
	}

	return []ChangePoint{
		{
			Index:     result.Index,
			Statistic: result.Statistic,
			PValue:    result.PValue,
			Info:      d.info,
		},
	}
}
