package perf

import "github.com/pkg/errors"

var (
	// ErrInvalidValue is returned when a raw observation cannot be
	// admitted into a series: NaN and infinite values have no total order
	// and poison the pairwise distances.
	ErrInvalidValue = errors.New("invalid value")

	// ErrDegenerateInput is returned when there is nothing to compute,
	// either because the series is too short for the configured delta or
	// because no permutations were requested.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvalidSplit signals a split index outside of [1, n-1]. The
	// estimators never produce one, so seeing it is a bug.
	ErrInvalidSplit = errors.New("invalid split")
)
