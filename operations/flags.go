package operations

import (
	"strings"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/evergreen-ci/changepoint/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

////////////////////////////////////////////////////////////////////////
//
// Flag Name Constants

const (
	configFlag     = "config"
	outputFlagName = "output"

	numWorkersFlag         = "workers"
	permutationWorkersFlag = "permutationWorkers"

	algorithmFlag    = "algorithm"
	deltaFlag        = "delta"
	permutationsFlag = "permutations"
	pValueFlag       = "pValue"
	seedFlag         = "seed"

	servicePortFlag   = "port"
	servicePrefixFlag = "prefix"
)

////////////////////////////////////////////////////////////////////////
//
// Utility Functions

func joinFlagNames(ids ...string) string { return strings.Join(ids, ", ") }

func mergeFlags(in ...[]cli.Flag) []cli.Flag {
	out := []cli.Flag{}

	for idx := range in {
		out = append(out, in[idx]...)
	}

	return out
}

// detectorOptions reads the configuration file, if any, and then applies
// every detector flag the user set explicitly.
func detectorOptions(c *cli.Context) (perf.DetectorOptions, error) {
	opts := perf.DetectorOptions{}

	if fn := c.String(configFlag); fn != "" {
		if err := util.ReadFileYAML(fn, &opts); err != nil {
			return opts, errors.Wrap(err, "problem reading detector configuration")
		}
	}

	if c.IsSet(algorithmFlag) || opts.Algorithm == "" {
		opts.Algorithm = c.String(algorithmFlag)
	}
	if c.IsSet(deltaFlag) || opts.Delta == 0 {
		opts.Delta = c.Int(deltaFlag)
	}
	if c.IsSet(permutationsFlag) || opts.Permutations == 0 {
		opts.Permutations = c.Int(permutationsFlag)
	}
	if c.IsSet(pValueFlag) || opts.PValue == 0 {
		opts.PValue = c.Float64(pValueFlag)
	}
	if c.IsSet(seedFlag) || opts.Seed == 0 {
		opts.Seed = c.Uint64(seedFlag)
	}
	if c.IsSet(permutationWorkersFlag) || opts.Workers == 0 {
		opts.Workers = c.Int(permutationWorkersFlag)
	}

	return opts, errors.Wrap(opts.Validate(), "invalid detector options")
}

////////////////////////////////////////////////////////////////////////
//
// Flag Groups

func addOutputPath(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:  joinFlagNames(outputFlagName, "o"),
		Usage: "path to the output file, writes to standard output when unset",
	})
}

func addConfigFlag(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringFlag{
		Name:   configFlag,
		Usage:  "path to a yaml/json file with detector options",
		EnvVar: "CHANGEPOINT_CONFIG",
	})
}

func detectorFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:  algorithmFlag,
			Usage: "change point estimator, 'edm_x' or 'e_divisive_with_medians'",
			Value: perf.EDMXAlgorithm,
		},
		cli.IntFlag{
			Name:   deltaFlag,
			Usage:  "minimum number of observations on each side of a candidate split",
			Value:  perf.DefaultDelta,
			EnvVar: "CHANGEPOINT_DELTA",
		},
		cli.IntFlag{
			Name:   permutationsFlag,
			Usage:  "number of permutations in the significance test",
			Value:  perf.DefaultPermutations,
			EnvVar: "CHANGEPOINT_PERMUTATIONS",
		},
		cli.Float64Flag{
			Name:   pValueFlag,
			Usage:  "largest p-value reported as a change point",
			Value:  perf.DefaultPValue,
			EnvVar: "CHANGEPOINT_P_VALUE",
		},
		cli.Uint64Flag{
			Name:   seedFlag,
			Usage:  "seed for the permutation streams",
			Value:  perf.DefaultSeed,
			EnvVar: "CHANGEPOINT_SEED",
		},
		cli.IntFlag{
			Name:  permutationWorkersFlag,
			Usage: "goroutines per permutation test, all processors when 0",
		})
}

func baseFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:   numWorkersFlag,
			Usage:  "specify the number of series processed concurrently",
			Value:  2,
			EnvVar: "CHANGEPOINT_WORKERS",
		})
}

func serviceFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.IntFlag{
			Name:   joinFlagNames(servicePortFlag, "p"),
			Usage:  "specify a port to run the service on",
			Value:  3000,
			EnvVar: "CHANGEPOINT_SERVICE_PORT",
		},
		cli.StringFlag{
			Name:  servicePrefixFlag,
			Usage: "url prefix for the service routes",
			Value: "rest",
		})
}
