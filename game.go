package lottery

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// getValidator returns the shared struct validator
func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return structValidator
}

// Range is an inclusive integer interval
type Range struct {
	Min int `json:"min" yaml:"min" mapstructure:"min" validate:"ltefield=Max"`
	Max int `json:"max" yaml:"max" mapstructure:"max"`
}

// Size returns the number of integers in the range
func (r Range) Size() int { return r.Max - r.Min + 1 }

// Contains reports whether n lies in the range
func (r Range) Contains(n int) bool { return n >= r.Min && n <= r.Max }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Min, r.Max) }

// Band identifies one of the three contiguous partitions of the main-number domain
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// Bands lists every band in ascending order
var Bands = []Band{BandLow, BandMid, BandHigh}

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// BandBoundaries fixes where the low band ends and where the mid band ends.
// The high band runs from MidMax+1 to the top of the main range.
type BandBoundaries struct {
	LowMax int `json:"low_max" yaml:"low_max" mapstructure:"low_max"`
	MidMax int `json:"mid_max" yaml:"mid_max" mapstructure:"mid_max" validate:"gtfield=LowMax"`
}

// GameConfig describes a fixed lottery format
type GameConfig struct {
	Name          string         `json:"name" yaml:"name" mapstructure:"name"`
	MainRange     Range          `json:"main_range" yaml:"main_range" mapstructure:"main_range"`
	MainCount     int            `json:"main_count" yaml:"main_count" mapstructure:"main_count" validate:"gt=0"`
	LifeBallRange Range          `json:"life_ball_range" yaml:"life_ball_range" mapstructure:"life_ball_range"`
	Bands         BandBoundaries `json:"bands" yaml:"bands" mapstructure:"bands"`
}

// SetForLife returns the Set For Life format: 5 of 1-47 plus a life ball of 1-10,
// banded 1-15 / 16-31 / 32-47.
func SetForLife() GameConfig {
	return GameConfig{
		Name:          "set-for-life",
		MainRange:     Range{Min: SetForLifeMainMin, Max: SetForLifeMainMax},
		MainCount:     SetForLifeMainCount,
		LifeBallRange: Range{Min: SetForLifeLifeBallMin, Max: SetForLifeLifeBallMax},
		Bands:         BandBoundaries{LowMax: SetForLifeLowMax, MidMax: SetForLifeMidMax},
	}
}

// Validate checks the game invariants. Unique sampling cannot terminate when the
// main range holds fewer numbers than MainCount, and every band must be non-empty.
func (g GameConfig) Validate() error {
	if err := getValidator().Struct(g); err != nil {
		return NewConfigurationError(fmt.Sprintf("game %q: %v", g.Name, err)).WithCause(err)
	}
	if g.MainRange.Size() < g.MainCount {
		return NewConfigurationError(fmt.Sprintf("game %q: main range %s holds %d numbers, cannot draw %d unique",
			g.Name, g.MainRange, g.MainRange.Size(), g.MainCount))
	}
	if g.Bands.LowMax < g.MainRange.Min || g.Bands.MidMax >= g.MainRange.Max {
		return NewConfigurationError(fmt.Sprintf("game %q: band boundaries %d/%d must leave three non-empty bands in %s",
			g.Name, g.Bands.LowMax, g.Bands.MidMax, g.MainRange))
	}
	return nil
}

// BandOf classifies a main number. Numbers outside the main range are clamped
// to the nearest band.
func (g GameConfig) BandOf(n int) Band {
	switch {
	case n <= g.Bands.LowMax:
		return BandLow
	case n <= g.Bands.MidMax:
		return BandMid
	default:
		return BandHigh
	}
}

// BandRange returns the inclusive range covered by band b
func (g GameConfig) BandRange(b Band) Range {
	switch b {
	case BandLow:
		return Range{Min: g.MainRange.Min, Max: g.Bands.LowMax}
	case BandMid:
		return Range{Min: g.Bands.LowMax + 1, Max: g.Bands.MidMax}
	default:
		return Range{Min: g.Bands.MidMax + 1, Max: g.MainRange.Max}
	}
}
