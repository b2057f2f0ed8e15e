package operations

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/evergreen-ci/changepoint/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestBaseFlags(t *testing.T) {
	assert := assert.New(t)

	flags := mergeFlags(baseFlags(), addConfigFlag(), addOutputPath(), detectorFlags())
	flagMap := map[string]cli.Flag{}
	for _, f := range flags {
		flagMap[f.GetName()] = f
	}

	expected := []string{"workers", "config", "output, o", "algorithm", "delta", "permutations", "pValue", "seed", "permutationWorkers"}
	for _, n := range expected {
		_, ok := flagMap[n]
		assert.True(ok, n)
	}
	assert.Len(flagMap, len(expected))
}

func newTestContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestDetectorOptions(t *testing.T) {
	flags := mergeFlags(addConfigFlag(), detectorFlags())

	t.Run("Defaults", func(t *testing.T) {
		opts, err := detectorOptions(newTestContext(t, flags))
		require.NoError(t, err)
		assert.Equal(t, perf.EDMXAlgorithm, opts.Algorithm)
		assert.Equal(t, perf.DefaultDelta, opts.Delta)
		assert.Equal(t, perf.DefaultPermutations, opts.Permutations)
		assert.Equal(t, perf.DefaultPValue, opts.PValue)
		assert.EqualValues(t, perf.DefaultSeed, opts.Seed)
		assert.Zero(t, opts.Workers)
	})
	t.Run("Flags", func(t *testing.T) {
		opts, err := detectorOptions(newTestContext(t, flags,
			"--algorithm", perf.MedianEDMXAlgorithm, "--delta", "7", "--permutations", "49",
			"--pValue", "0.01", "--seed", "42", "--permutationWorkers", "3"))
		require.NoError(t, err)
		assert.Equal(t, perf.MedianEDMXAlgorithm, opts.Algorithm)
		assert.Equal(t, 7, opts.Delta)
		assert.Equal(t, 49, opts.Permutations)
		assert.Equal(t, 0.01, opts.PValue)
		assert.EqualValues(t, 42, opts.Seed)
		assert.Equal(t, 3, opts.Workers)
	})
	t.Run("ConfigFile", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "options.yaml")
		require.NoError(t, os.WriteFile(fn, []byte("algorithm: e_divisive_with_medians\ndelta: 12\npermutations: 99\n"), 0644))

		opts, err := detectorOptions(newTestContext(t, flags, "--config", fn))
		require.NoError(t, err)
		assert.Equal(t, perf.MedianEDMXAlgorithm, opts.Algorithm)
		assert.Equal(t, 12, opts.Delta)
		assert.Equal(t, 99, opts.Permutations)
		assert.Equal(t, perf.DefaultPValue, opts.PValue)
	})
	t.Run("FlagsOverrideConfigFile", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "options.yaml")
		require.NoError(t, os.WriteFile(fn, []byte("delta: 12\npermutations: 99\n"), 0644))

		opts, err := detectorOptions(newTestContext(t, flags, "--config", fn, "--delta", "4"))
		require.NoError(t, err)
		assert.Equal(t, 4, opts.Delta)
		assert.Equal(t, 99, opts.Permutations)
	})
	t.Run("MissingConfigFile", func(t *testing.T) {
		_, err := detectorOptions(newTestContext(t, flags, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
		assert.Error(t, err)
	})
	t.Run("InvalidOptions", func(t *testing.T) {
		_, err := detectorOptions(newTestContext(t, flags, "--algorithm", "pelt"))
		assert.Error(t, err)

		_, err = detectorOptions(newTestContext(t, flags, "--delta", "-2"))
		assert.Error(t, err)
	})
}
