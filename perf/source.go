package perf

import "math/rand/v2"

// Source hands out independent random streams keyed by trial number. A
// stream depends only on the source's seed and the trial, never on the
// order in which streams are requested, so trials may run on any number
// of goroutines and still draw the same permutations.
type Source interface {
	Stream(trial uint64) *rand.Rand
}

type seededSource struct {
	seed uint64
}

// NewSeededSource returns a Source of PCG streams derived from seed.
func NewSeededSource(seed uint64) Source {
	return seededSource{seed: seed}
}

func (s seededSource) Stream(trial uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s.seed, splitmix64(trial)))
}

// splitmix64 scatters consecutive trial numbers across the PCG stream
// space.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
