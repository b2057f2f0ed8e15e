package operations

import (
	"context"
	"time"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/evergreen-ci/changepoint/units"
	"github.com/evergreen-ci/changepoint/util"
	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// SeriesReport is the outcome of testing one series file.
type SeriesReport struct {
	Name         string                      `json:"name"`
	File         string                      `json:"file"`
	Length       int                         `json:"length"`
	Result       *perf.PermutationTestResult `json:"result,omitempty"`
	Null         *perf.NullSummary           `json:"null,omitempty"`
	ChangePoints []perf.ChangePoint          `json:"change_points"`
	Error        string                      `json:"error,omitempty"`
}

// Detect returns the ./changepoint detect sub-command, which tests each
// series file named on the command line for a single change point.
func Detect() cli.Command {
	return cli.Command{
		Name:      "detect",
		Usage:     "test series files for a single change point",
		ArgsUsage: "<file> [<file>...]",
		Flags:     mergeFlags(baseFlags(), addConfigFlag(), addOutputPath(), detectorFlags()),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			files := []string(c.Args())
			if len(files) == 0 {
				return errors.New("must specify at least one series file")
			}

			opts, err := detectorOptions(c)
			if err != nil {
				return errors.WithStack(err)
			}

			reports, err := detectFiles(ctx, c.Int(numWorkersFlag), opts, files)
			if err != nil {
				return errors.WithStack(err)
			}

			if fn := c.String(outputFlagName); fn != "" {
				if err = util.WriteJSON(fn, reports); err != nil {
					return errors.Wrapf(err, "problem writing report to %s", fn)
				}
			} else if err = util.PrintJSON(c.App.Writer, reports); err != nil {
				return errors.WithStack(err)
			}

			catcher := grip.NewBasicCatcher()
			for _, r := range reports {
				catcher.NewWhen(r.Error != "", r.Name+": "+r.Error)
			}
			return catcher.Resolve()
		},
	}
}

// detectFiles runs one detection job per file on a local queue and
// returns the reports in file order. Files that cannot be read are
// reported without running a job.
func detectFiles(ctx context.Context, workers int, opts perf.DetectorOptions, files []string) ([]SeriesReport, error) {
	if workers < 1 {
		workers = 1
	}

	q := queue.NewLocalLimitedSize(workers, len(files))
	if err := q.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "problem starting queue")
	}

	reports := make([]SeriesReport, len(files))
	jobIDs := make([]string, len(files))
	for idx, fn := range files {
		reports[idx].File = fn

		sf, err := util.ReadSeriesFile(fn)
		if err != nil {
			reports[idx].Name = fn
			reports[idx].Error = err.Error()
			continue
		}
		reports[idx].Name = sf.Name
		reports[idx].Length = len(sf.Series)

		j := units.NewDetectChangePointJob(sf.Name, sf.Series, opts)
		if err = q.Put(ctx, j); err != nil {
			return nil, errors.Wrapf(err, "problem queueing series '%s'", sf.Name)
		}
		jobIDs[idx] = j.ID()
	}

	start := time.Now()
	if !amboy.WaitInterval(ctx, q, 100*time.Millisecond) {
		return nil, errors.New("detection jobs did not complete")
	}

	for idx, id := range jobIDs {
		if id == "" {
			continue
		}

		j, ok := q.Get(ctx, id)
		if !ok {
			reports[idx].Error = "job disappeared from the queue"
			continue
		}
		dj, ok := j.(*units.DetectChangePointJob)
		if !ok {
			reports[idx].Error = "unexpected job type " + j.Type().Name
			continue
		}
		fillReport(&reports[idx], dj)
	}

	grip.Info(message.Fields{
		"message":      "completed change point detection",
		"files":        len(files),
		"workers":      workers,
		"algorithm":    opts.Algorithm,
		"elapsed_secs": time.Since(start).Seconds(),
	})

	return reports, nil
}

func fillReport(report *SeriesReport, j *units.DetectChangePointJob) {
	report.ChangePoints = j.ChangePoints
	if err := j.Error(); err != nil {
		report.Error = err.Error()
		return
	}

	report.Result = j.Result
	summary, err := j.Result.Summary()
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "could not summarize permutation scores",
			"series":  report.Name,
		}))
		return
	}
	report.Null = &summary
}
