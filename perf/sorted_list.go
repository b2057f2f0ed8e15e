package perf

import "sort"

// sortedList is an ascending list of floats.
type sortedList []float64

// Insert the list of floats maintaining the sort order.
func (s *sortedList) Insert(floats ...float64) {
	length := len(*s)
	for _, f := range floats {
		// Assume f is appended.
		*s = append(*s, f)
		if length != 0 && f < (*s)[length-1] {
			// Deal with the case where we are inserting before the end.
			index := sort.SearchFloat64s((*s)[:length], f)
			copy((*s)[index+1:], (*s)[index:length])
			(*s)[index] = f
		}
		length++
	}
}

// Remove one occurrence of f, maintaining the sort order. Removing a
// value that is not present is a no-op.
func (s *sortedList) Remove(f float64) {
	index := sort.SearchFloat64s(*s, f)
	length := len(*s)
	if index == length || (*s)[index] != f {
		return
	}
	copy((*s)[index:], (*s)[index+1:])
	*s = (*s)[:length-1]
}

// Calculate the median, assuming the list is sorted and not empty.
func (s sortedList) Median() float64 {
	length := len(s)
	center := length / 2
	if length%2 != 0 {
		return s[center]
	}
	return (s[center] + s[center-1]) / 2.0
}

// PairwiseSum returns the sum of |a-b| over every unordered pair of
// distinct positions. Values are shifted by the minimum first so the
// weighted sum does not cancel away the spread of large offsets.
func (s sortedList) PairwiseSum() float64 {
	length := len(s)
	if length < 2 {
		return 0
	}

	base := s[0]
	sum := 0.0
	for j, y := range s {
		sum += float64(2*j-length+1) * (y - base)
	}
	return sum
}

// crossSum returns the sum of |a-b| over every a in left and b in right.
func crossSum(left, right sortedList) float64 {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	base := left[0]
	if right[0] < base {
		base = right[0]
	}

	total := 0.0
	for _, a := range left {
		total += a - base
	}

	var (
		sum      float64
		below    float64
		numBelow int
		i        int
	)
	numLeft := len(left)
	for _, b := range right {
		for i < numLeft && left[i] < b {
			below += left[i] - base
			numBelow++
			i++
		}
		y := b - base
		sum += float64(numBelow)*y - below
		sum += (total - below) - float64(numLeft-numBelow)*y
	}
	return sum
}
