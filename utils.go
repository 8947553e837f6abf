package lottery

import (
	"math"
	"slices"
)

// ValidateRange validates lottery range parameters
func ValidateRange(min, max int) error {
	if min > max {
		return ErrInvalidRange
	}
	return nil
}

// ValidateCount validates count parameter for multiple draws
func ValidateCount(count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	return nil
}

// ceilRatio returns ceil(n * ratio) without drifting on exact products such as 5*0.6
func ceilRatio(n int, ratio float64) int {
	return int(math.Ceil(float64(n)*ratio - 1e-9))
}

// sortedCopy returns an ascending copy of numbers
func sortedCopy(numbers []int) []int {
	out := slices.Clone(numbers)
	slices.Sort(out)
	return out
}
