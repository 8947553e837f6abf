package lottery

import (
	"fmt"
	"strings"
)

// Combination is one generated line: sorted distinct main numbers plus the life ball
type Combination struct {
	Main     []int `json:"main_numbers" yaml:"main_numbers"`
	LifeBall int   `json:"life_ball" yaml:"life_ball"`
}

func (c Combination) String() string {
	parts := make([]string, len(c.Main))
	for i, n := range c.Main {
		parts[i] = fmt.Sprintf("%2d", n)
	}
	return fmt.Sprintf("%s + %2d", strings.Join(parts, " "), c.LifeBall)
}

// Stats summarises the main numbers of a combination by parity and by band
type Stats struct {
	OddCount  int `json:"odd_count" yaml:"odd_count"`
	EvenCount int `json:"even_count" yaml:"even_count"`
	LowCount  int `json:"low_count" yaml:"low_count"`
	MidCount  int `json:"mid_count" yaml:"mid_count"`
	HighCount int `json:"high_count" yaml:"high_count"`
}

// BandCount returns the count for band b
func (s Stats) BandCount(b Band) int {
	switch b {
	case BandLow:
		return s.LowCount
	case BandMid:
		return s.MidCount
	default:
		return s.HighCount
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d odd / %d even | %d low / %d mid / %d high",
		s.OddCount, s.EvenCount, s.LowCount, s.MidCount, s.HighCount)
}

// ComputeStats partitions main by parity and by the bands of game
func ComputeStats(game GameConfig, main []int) Stats {
	var s Stats
	for _, n := range main {
		if isOdd(n) {
			s.OddCount++
		} else {
			s.EvenCount++
		}

		switch game.BandOf(n) {
		case BandLow:
			s.LowCount++
		case BandMid:
			s.MidCount++
		default:
			s.HighCount++
		}
	}
	return s
}

// ResultLine is an accepted combination together with its stats
type ResultLine struct {
	Combination `yaml:",inline"`
	Stats       Stats `json:"stats" yaml:"stats"`
}

// newResultLine copies main in ascending order so the line owns its numbers
func newResultLine(game GameConfig, main []int, lifeBall int) ResultLine {
	numbers := sortedCopy(main)
	return ResultLine{
		Combination: Combination{Main: numbers, LifeBall: lifeBall},
		Stats:       ComputeStats(game, numbers),
	}
}

func (l ResultLine) String() string {
	return fmt.Sprintf("%s | %s", l.Combination, l.Stats)
}

func isOdd(n int) bool { return n%2 != 0 }
