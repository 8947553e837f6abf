package lottery

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_RandomInt(t *testing.T) {
	sampler := NewSampler(NewSeededRandomGenerator(1))

	tests := []struct {
		name    string
		min     int
		max     int
		wantErr error
	}{
		{name: "main_range", min: 1, max: 47},
		{name: "life_ball_range", min: 1, max: 10},
		{name: "single_value", min: 5, max: 5},
		{name: "negative_range", min: -3, max: 3},
		{name: "inverted_range", min: 10, max: 1, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 200 {
				n, err := sampler.RandomInt(tt.min, tt.max)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				require.GreaterOrEqual(t, n, tt.min)
				require.LessOrEqual(t, n, tt.max)
			}
		})
	}
}

func TestSampler_RandomIntSourceFailure(t *testing.T) {
	sampler := NewSampler(failingRandomGenerator{})

	_, err := sampler.RandomInt(1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRandomSource)
	assert.ErrorIs(t, err, errEntropy)
}

func TestSampler_UniqueSample(t *testing.T) {
	sampler := NewSampler(NewSeededRandomGenerator(2024))

	tests := []struct {
		name    string
		count   int
		min     int
		max     int
		wantErr error
	}{
		{name: "five_of_47", count: 5, min: 1, max: 47},
		{name: "whole_range", count: 5, min: 1, max: 5},
		{name: "single", count: 1, min: 1, max: 10},
		{name: "count_exceeds_range", count: 6, min: 1, max: 5, wantErr: ErrInvalidCount},
		{name: "zero_count", count: 0, min: 1, max: 5, wantErr: ErrInvalidCount},
		{name: "inverted_range", count: 1, min: 5, max: 1, wantErr: ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			numbers, err := sampler.UniqueSample(tt.count, tt.min, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, numbers)
				return
			}

			require.NoError(t, err)
			require.Len(t, numbers, tt.count)

			seen := make(map[int]bool)
			for _, n := range numbers {
				assert.GreaterOrEqual(t, n, tt.min)
				assert.LessOrEqual(t, n, tt.max)
				assert.False(t, seen[n], "duplicate %d", n)
				seen[n] = true
			}
		})
	}

	t.Run("whole_range_is_permutation", func(t *testing.T) {
		numbers, err := sampler.UniqueSample(5, 1, 5)
		require.NoError(t, err)
		slices.Sort(numbers)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, numbers)
	})

	t.Run("keeps_draw_order_and_skips_duplicates", func(t *testing.T) {
		scripted := NewSampler(&sequenceRandomGenerator{values: []int{9, 3, 9, 3, 1}})

		numbers, err := scripted.UniqueSample(3, 1, 9)
		require.NoError(t, err)
		assert.Equal(t, []int{9, 3, 1}, numbers)
	})

	t.Run("source_failure", func(t *testing.T) {
		_, err := NewSampler(failingRandomGenerator{}).UniqueSample(3, 1, 9)
		assert.ErrorIs(t, err, ErrRandomSource)
	})
}

func TestNewSampler_DefaultsToSecureGenerator(t *testing.T) {
	sampler := NewSampler(nil)
	_, ok := sampler.generator.(*SecureRandomGenerator)
	assert.True(t, ok)

	numbers, err := sampler.UniqueSample(5, 1, 47)
	require.NoError(t, err)
	assert.Len(t, numbers, 5)
}
