package lottery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	game := SetForLife()

	tests := []struct {
		name     string
		main     []int
		expected Stats
	}{
		{
			name:     "mixed",
			main:     []int{12, 18, 25, 33, 41},
			expected: Stats{OddCount: 3, EvenCount: 2, LowCount: 1, MidCount: 2, HighCount: 2},
		},
		{
			name:     "band_edges",
			main:     []int{1, 15, 16, 31, 32},
			expected: Stats{OddCount: 3, EvenCount: 2, LowCount: 2, MidCount: 2, HighCount: 1},
		},
		{
			name:     "all_odd_high",
			main:     []int{33, 35, 37, 39, 47},
			expected: Stats{OddCount: 5, EvenCount: 0, LowCount: 0, MidCount: 0, HighCount: 5},
		},
		{
			name:     "all_even_low",
			main:     []int{2, 4, 6, 8, 10},
			expected: Stats{OddCount: 0, EvenCount: 5, LowCount: 5, MidCount: 0, HighCount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(game, tt.main)
			assert.Equal(t, tt.expected, stats)
			assert.Equal(t, len(tt.main), stats.OddCount+stats.EvenCount)
			assert.Equal(t, len(tt.main), stats.LowCount+stats.MidCount+stats.HighCount)
		})
	}
}

func TestStats_String(t *testing.T) {
	stats := Stats{OddCount: 3, EvenCount: 2, LowCount: 1, MidCount: 2, HighCount: 2}
	assert.Equal(t, "3 odd / 2 even | 1 low / 2 mid / 2 high", stats.String())
	assert.Equal(t, 1, stats.BandCount(BandLow))
	assert.Equal(t, 2, stats.BandCount(BandMid))
	assert.Equal(t, 2, stats.BandCount(BandHigh))
}

func TestNewResultLine(t *testing.T) {
	game := SetForLife()
	main := []int{41, 12, 33, 18, 25}

	line := newResultLine(game, main, 7)

	assert.Equal(t, []int{12, 18, 25, 33, 41}, line.Main)
	assert.Equal(t, 7, line.LifeBall)
	assert.Equal(t, ComputeStats(game, line.Main), line.Stats)

	// 结果行拥有自己的号码
	main[0] = 99
	assert.Equal(t, 12, line.Main[0])

	assert.Equal(t, "12 18 25 33 41 +  7", line.Combination.String())
	assert.Equal(t, "12 18 25 33 41 +  7 | 3 odd / 2 even | 1 low / 2 mid / 2 high", line.String())
}

func TestResultLine_JSON(t *testing.T) {
	line := newResultLine(SetForLife(), []int{3, 16, 20, 32, 40}, 10)

	data, err := json.Marshal(line)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []any{3.0, 16.0, 20.0, 32.0, 40.0}, decoded["main_numbers"])
	assert.Equal(t, 10.0, decoded["life_ball"])
	assert.Contains(t, decoded, "stats")
}
