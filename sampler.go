package lottery

import "fmt"

// Sampler draws scalars and unique sets from a RandomGenerator
type Sampler struct {
	generator RandomGenerator
}

// NewSampler creates a sampler over generator, falling back to a SecureRandomGenerator when nil
func NewSampler(generator RandomGenerator) *Sampler {
	if generator == nil {
		generator = NewSecureRandomGenerator()
	}
	return &Sampler{generator: generator}
}

// RandomInt returns a uniformly distributed integer in [min, max] (inclusive)
func (s *Sampler) RandomInt(min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}

	n, err := s.generator.GenerateInRange(min, max)
	if err != nil {
		return 0, ErrRandomSource.Clone().WithCause(err)
	}
	return n, nil
}

// UniqueSample returns count distinct integers from [min, max] in draw order.
//
// Duplicates are discarded and redrawn, so the number of draws is unbounded;
// it grows as count approaches the size of the range. A count larger than the
// range is rejected instead of looping forever.
func (s *Sampler) UniqueSample(count, min, max int) ([]int, error) {
	if err := ValidateRange(min, max); err != nil {
		return nil, err
	}
	if err := ValidateCount(count); err != nil {
		return nil, err
	}
	if size := max - min + 1; count > size {
		return nil, ErrInvalidCount.Clone().
			WithDetails(fmt.Sprintf("cannot draw %d unique numbers from %d-%d", count, min, max))
	}

	seen := make(map[int]struct{}, count)
	numbers := make([]int, 0, count)
	for len(numbers) < count {
		n, err := s.RandomInt(min, max)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}

	return numbers, nil
}
