package perf

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"testing"

	"github.com/mongodb/grip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

const defaultSeed = 12345678

func LoadFixture(testName string, fixture interface{}) error {
	parts := strings.Split(testName, "/")
	testName = parts[len(parts)-1]

	fixtureName := fmt.Sprintf("testdata/%s.json", testName)
	jsonFile, err := os.Open(fixtureName)
	if err != nil {
		return err
	}
	defer func() { grip.Alert(jsonFile.Close()) }()

	return json.NewDecoder(jsonFile).Decode(fixture)
}

// naiveEnergyStatistic is the textbook all-pairs definition.
func naiveEnergyStatistic(series []float64, k int) float64 {
	n := len(series)
	left, right := series[:k], series[k:]

	meanAbs := func(a, b []float64) float64 {
		sum := 0.0
		for _, x := range a {
			for _, y := range b {
				sum += math.Abs(x - y)
			}
		}
		return sum / float64(len(a)*len(b))
	}

	n1, n2 := float64(k), float64(n-k)
	return (n1 * n2 / (n1 + n2)) * (2*meanAbs(left, right) - meanAbs(left, left) - meanAbs(right, right))
}

type segment struct {
	size  int
	mean  float64
	sigma float64
}

// normalSeries draws consecutive segments from normal distributions.
func normalSeries(t *testing.T, seed uint64, segments ...segment) []OrderedValue {
	src := rand.NewPCG(seed, 0)
	var out []OrderedValue
	for _, s := range segments {
		dist := distuv.Normal{Mu: s.mean, Sigma: s.sigma, Src: src}
		for i := 0; i < s.size; i++ {
			v, err := NewOrderedValue(dist.Rand())
			require.NoError(t, err)
			out = append(out, v)
		}
	}
	return out
}

func mustSeries(t *testing.T, values ...float64) []OrderedValue {
	series, err := NewOrderedSeries(values)
	require.NoError(t, err)
	return series
}

// assertClose checks relative agreement to 1e-9, falling back to an
// absolute bound of the same size around zero.
func assertClose(t *testing.T, expected, actual float64, msgAndArgs ...interface{}) {
	tolerance := 1e-9 * math.Max(1, math.Abs(expected))
	assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
}

// neumaierSum adds values with Neumaier's compensated summation.
type neumaierSum struct {
	sum          float64
	compensation float64
}

func (s *neumaierSum) add(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		s.compensation += (s.sum - t) + v
	} else {
		s.compensation += (v - t) + s.sum
	}
	s.sum = t
}

func (s *neumaierSum) value() float64 { return s.sum + s.compensation }

// compensatedEnergyStatistic is the all-pairs definition with every pair
// sum accumulated by compensated summation.
func compensatedEnergyStatistic(series []float64, k int) float64 {
	n := len(series)
	left, right := series[:k], series[k:]

	pairSum := func(a []float64) float64 {
		s := &neumaierSum{}
		for i := range a {
			for j := i + 1; j < len(a); j++ {
				s.add(math.Abs(a[i] - a[j]))
			}
		}
		return s.value()
	}
	between := &neumaierSum{}
	for _, x := range left {
		for _, y := range right {
			between.add(math.Abs(x - y))
		}
	}

	return energy(k, n-k, pairSum(left), pairSum(right), between.value())
}
