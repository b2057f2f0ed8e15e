package units

import (
	"context"
	"fmt"
	"strings"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/dependency"
	"github.com/mongodb/amboy/job"
	"github.com/mongodb/amboy/registry"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const detectChangePointJobName = "detect-change-point"

// DetectChangePointJob runs a permutation-tested change point detection
// over one named series.
type DetectChangePointJob struct {
	*job.Base    `bson:"metadata" json:"metadata" yaml:"metadata"`
	SeriesName   string                      `bson:"series_name" json:"series_name" yaml:"series_name"`
	Series       []float64                   `bson:"series" json:"series" yaml:"series"`
	Options      perf.DetectorOptions        `bson:"options" json:"options" yaml:"options"`
	Result       *perf.PermutationTestResult `bson:"result,omitempty" json:"result,omitempty" yaml:"result,omitempty"`
	ChangePoints []perf.ChangePoint          `bson:"change_points" json:"change_points" yaml:"change_points"`
}

func init() {
	registry.AddJobType(detectChangePointJobName, func() amboy.Job { return makeDetectChangePointJob() })
}

func makeDetectChangePointJob() *DetectChangePointJob {
	j := &DetectChangePointJob{
		Base: &job.Base{
			JobType: amboy.JobType{
				Name:    detectChangePointJobName,
				Version: 1,
			},
		},
	}
	j.SetDependency(dependency.NewAlways())
	return j
}

// NewDetectChangePointJob returns a job that tests series for a single
// change point with the given options.
func NewDetectChangePointJob(name string, series []float64, opts perf.DetectorOptions) *DetectChangePointJob {
	j := makeDetectChangePointJob()
	j.SetID(fmt.Sprintf("%s.%s.%d", j.JobType.Name, idSafe(name), job.GetNumber()))
	j.SeriesName = name
	j.Series = series
	j.Options = opts
	return j
}

// idSafe replaces every character that is not safe in a URL path segment.
func idSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func (j *DetectChangePointJob) Run(ctx context.Context) {
	defer j.MarkComplete()

	detector, err := perf.NewDetector(j.Options)
	if err != nil {
		j.AddError(errors.Wrapf(err, "problem configuring detector for series '%s'", j.SeriesName))
		return
	}
	j.Options = detector.Options()

	result, err := detector.Test(ctx, j.Series)
	if err != nil {
		j.AddError(errors.Wrapf(err, "problem detecting change points in series '%s'", j.SeriesName))
		return
	}

	j.Result = result
	j.ChangePoints = detector.ChangePoints(result)

	grip.Info(message.Fields{
		"message":       "completed change point detection",
		"job":           j.ID(),
		"series":        j.SeriesName,
		"series_len":    len(j.Series),
		"algorithm":     j.Options.Algorithm,
		"index":         result.Index,
		"p_value":       result.PValue,
		"change_points": len(j.ChangePoints),
	})
}
