package operations

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	beforeFlag     = "before"
	afterFlag      = "after"
	meanBeforeFlag = "meanBefore"
	sdBeforeFlag   = "sdBefore"
	meanAfterFlag  = "meanAfter"
	sdAfterFlag    = "sdAfter"
)

// simulation describes a series made of two normally distributed
// segments.
type simulation struct {
	Before       int
	After        int
	MeanBefore   float64
	SDBefore     float64
	MeanAfter    float64
	SDAfter      float64
	Delta        int
	Permutations int
	Workers      int
	Seed         uint64
}

func (s simulation) validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(s.Before < 1, "must draw at least one sample before the change")
	catcher.NewWhen(s.After < 1, "must draw at least one sample after the change")
	catcher.NewWhen(s.SDBefore <= 0, "standard deviation before the change must be positive")
	catcher.NewWhen(s.SDAfter <= 0, "standard deviation after the change must be positive")
	return catcher.Resolve()
}

// series draws both segments from the seeded generator.
func (s simulation) series() []float64 {
	src := rand.NewPCG(s.Seed, 0)
	out := make([]float64, 0, s.Before+s.After)

	before := distuv.Normal{Mu: s.MeanBefore, Sigma: s.SDBefore, Src: src}
	for i := 0; i < s.Before; i++ {
		out = append(out, before.Rand())
	}

	after := distuv.Normal{Mu: s.MeanAfter, Sigma: s.SDAfter, Src: src}
	for i := 0; i < s.After; i++ {
		out = append(out, after.Rand())
	}

	return out
}

func (s simulation) run(ctx context.Context, w io.Writer) (*perf.PermutationTestResult, error) {
	if err := s.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulation")
	}

	fmt.Fprintln(w, "\n**Detect a change point from observations drawn from two normal distributions**")
	fmt.Fprintf(w, "\nDrawing %d samples from a normal distribution with mean %.1f and standard deviation %.1f\n",
		s.Before, s.MeanBefore, s.SDBefore)
	fmt.Fprintf(w, "Drawing %d samples from a normal distribution with mean %.1f and standard deviation %.1f\n",
		s.After, s.MeanAfter, s.SDAfter)

	values, err := perf.NewOrderedSeries(s.series())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	est, err := perf.NewEDMX(s.Delta)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	fmt.Fprintf(w, "\nInitialized EDM-X with delta %d\n", s.Delta)
	fmt.Fprintf(w, "Performing a permutation test with %d permutations\n", s.Permutations)

	result, err := perf.ParallelPermutationTest(ctx, est, perf.NewSeededSource(s.Seed), s.Permutations, s.Workers, values)
	if err != nil {
		return nil, errors.Wrap(err, "problem running permutation test")
	}

	fmt.Fprintf(w, "\nCandidate split location: %d\n", result.Index)
	fmt.Fprintf(w, "P-Value: %.5f\n", result.PValue)

	return result, nil
}

// Simulate returns the ./changepoint simulate sub-command, which runs the
// detector over a synthetic series with a known change point.
func Simulate() cli.Command {
	return cli.Command{
		Name:  "simulate",
		Usage: "detect a change point in a synthetic series of two normal segments",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  beforeFlag,
				Usage: "number of samples before the change",
				Value: 500,
			},
			cli.IntFlag{
				Name:  afterFlag,
				Usage: "number of samples after the change",
				Value: 200,
			},
			cli.Float64Flag{
				Name:  meanBeforeFlag,
				Usage: "mean of the samples before the change",
				Value: 10,
			},
			cli.Float64Flag{
				Name:  sdBeforeFlag,
				Usage: "standard deviation of the samples before the change",
				Value: 5,
			},
			cli.Float64Flag{
				Name:  meanAfterFlag,
				Usage: "mean of the samples after the change",
				Value: 20,
			},
			cli.Float64Flag{
				Name:  sdAfterFlag,
				Usage: "standard deviation of the samples after the change",
				Value: 5,
			},
			cli.IntFlag{
				Name:  deltaFlag,
				Usage: "minimum number of observations on each side of a candidate split",
				Value: perf.DefaultDelta,
			},
			cli.IntFlag{
				Name:  permutationsFlag,
				Usage: "number of permutations in the significance test",
				Value: perf.DefaultPermutations,
			},
			cli.Uint64Flag{
				Name:  seedFlag,
				Usage: "seed for the samples and the permutation streams",
				Value: perf.DefaultSeed,
			},
			cli.IntFlag{
				Name:  permutationWorkersFlag,
				Usage: "goroutines for the permutation test, all processors when 0",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s := simulation{
				Before:       c.Int(beforeFlag),
				After:        c.Int(afterFlag),
				MeanBefore:   c.Float64(meanBeforeFlag),
				SDBefore:     c.Float64(sdBeforeFlag),
				MeanAfter:    c.Float64(meanAfterFlag),
				SDAfter:      c.Float64(sdAfterFlag),
				Delta:        c.Int(deltaFlag),
				Permutations: c.Int(permutationsFlag),
				Workers:      c.Int(permutationWorkersFlag),
				Seed:         c.Uint64(seedFlag),
			}

			_, err := s.run(ctx, c.App.Writer)
			return errors.WithStack(err)
		},
	}
}
