package lottery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Target is a count constraint that is either unconstrained or an exact value
type Target struct {
	set   bool
	value int
}

// Any returns the unconstrained target
func Any() Target { return Target{} }

// Exactly returns a target requiring exactly n
func Exactly(n int) Target { return Target{set: true, value: n} }

// IsSet reports whether the target constrains the count
func (t Target) IsSet() bool { return t.set }

// Value returns the required count; meaningless when IsSet is false
func (t Target) Value() int { return t.value }

// Matches reports whether count satisfies the target
func (t Target) Matches(count int) bool { return !t.set || t.value == count }

func (t Target) String() string {
	if !t.set {
		return "any"
	}
	return strconv.Itoa(t.value)
}

// ParseTarget parses the form value of a count constraint: "any" (or empty) or a
// non-negative integer.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "any" {
		return Any(), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Target{}, ErrInvalidTarget.Clone().WithDetails(fmt.Sprintf("%q", s))
	}
	return Exactly(n), nil
}

// MarshalJSON encodes an unconstrained target as "any" and a set one as a number
func (t Target) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte(`"any"`), nil
	}
	return []byte(strconv.Itoa(t.value)), nil
}

// UnmarshalJSON accepts "any", a numeric string or a number
func (t *Target) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return ErrInvalidTarget.Clone().WithDetails(string(data))
		}
		*t = Exactly(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidTarget.Clone().WithDetails(string(data)).WithCause(err)
	}
	parsed, err := ParseTarget(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a target the same way as MarshalJSON
func (t Target) MarshalYAML() (any, error) {
	if !t.set {
		return "any", nil
	}
	return t.value, nil
}

// DistributionPreference is a coarse filter on band representation
type DistributionPreference string

const (
	DistributionAny      DistributionPreference = "any"
	DistributionLow      DistributionPreference = "low"
	DistributionMid      DistributionPreference = "mid"
	DistributionHigh     DistributionPreference = "high"
	DistributionBalanced DistributionPreference = "balanced"
)

// ParseDistribution parses a distribution preference. The favor-* spellings are
// accepted as aliases of low, mid and high.
func ParseDistribution(s string) (DistributionPreference, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "any":
		return DistributionAny, nil
	case "low", "favor-low":
		return DistributionLow, nil
	case "mid", "favor-mid":
		return DistributionMid, nil
	case "high", "favor-high":
		return DistributionHigh, nil
	case "balanced":
		return DistributionBalanced, nil
	default:
		return "", ErrInvalidDistribution.Clone().WithDetails(fmt.Sprintf("%q", s))
	}
}

// favoredBand returns the band a favor-* preference asks for
func (d DistributionPreference) favoredBand() (Band, bool) {
	switch d {
	case DistributionLow:
		return BandLow, true
	case DistributionMid:
		return BandMid, true
	case DistributionHigh:
		return BandHigh, true
	default:
		return 0, false
	}
}

// Criteria is the constraint set of one generation request
type Criteria struct {
	Lines        int                    `json:"lines" yaml:"lines" validate:"gt=0"`
	Odd          Target                 `json:"odd" yaml:"odd"`
	Even         Target                 `json:"even" yaml:"even"`
	Low          Target                 `json:"low" yaml:"low"`
	Mid          Target                 `json:"mid" yaml:"mid"`
	High         Target                 `json:"high" yaml:"high"`
	Distribution DistributionPreference `json:"distribution" yaml:"distribution" validate:"omitempty,oneof=any low mid high balanced"`
}

// DefaultCriteria returns five unconstrained lines
func DefaultCriteria() Criteria {
	return Criteria{
		Lines:        DefaultLines,
		Distribution: DistributionAny,
	}
}

// BandTarget returns the target for band b
func (c Criteria) BandTarget(b Band) Target {
	switch b {
	case BandLow:
		return c.Low
	case BandMid:
		return c.Mid
	default:
		return c.High
	}
}

// AllBandsSet reports whether low, mid and high are all constrained
func (c Criteria) AllBandsSet() bool {
	return c.Low.IsSet() && c.Mid.IsSet() && c.High.IsSet()
}

// CheckShape validates the request itself: a positive line count and a known
// distribution preference. These are rejected in every mode, as configuration
// errors wrapping ErrInvalidCount or ErrInvalidDistribution.
func (c Criteria) CheckShape() error {
	if err := getValidator().Struct(c); err != nil {
		if c.Lines <= 0 {
			return NewConfigurationError(fmt.Sprintf("lines must be positive, got %d", c.Lines)).
				WithCause(ErrInvalidCount.Clone().WithCause(err))
		}
		return NewConfigurationError(fmt.Sprintf("unknown distribution %q", c.Distribution)).
			WithCause(ErrInvalidDistribution.Clone().WithCause(err))
	}
	return nil
}

// Satisfiable checks the criteria against game and returns a configuration
// error when no combination could ever be accepted.
func (c Criteria) Satisfiable(game GameConfig) error {
	n := game.MainCount

	for _, tc := range []struct {
		name   string
		target Target
	}{{"odd", c.Odd}, {"even", c.Even}, {"low", c.Low}, {"mid", c.Mid}, {"high", c.High}} {
		if tc.target.IsSet() && (tc.target.Value() < 0 || tc.target.Value() > n) {
			return NewConfigurationError(fmt.Sprintf("%s target %d outside 0-%d", tc.name, tc.target.Value(), n))
		}
	}

	if c.Odd.IsSet() && c.Even.IsSet() && c.Odd.Value()+c.Even.Value() != n {
		return NewConfigurationError(fmt.Sprintf("odd %d + even %d must equal main count %d", c.Odd.Value(), c.Even.Value(), n))
	}

	odds, evens := parityCapacity(game.MainRange)
	if c.Odd.IsSet() && c.Odd.Value() > odds {
		return NewConfigurationError(fmt.Sprintf("odd target %d exceeds the %d odd numbers in %s", c.Odd.Value(), odds, game.MainRange))
	}
	if c.Even.IsSet() && c.Even.Value() > evens {
		return NewConfigurationError(fmt.Sprintf("even target %d exceeds the %d even numbers in %s", c.Even.Value(), evens, game.MainRange))
	}

	if c.AllBandsSet() {
		if sum := c.Low.Value() + c.Mid.Value() + c.High.Value(); sum != n {
			return NewConfigurationError(fmt.Sprintf("band targets %d/%d/%d sum to %d, want main count %d",
				c.Low.Value(), c.Mid.Value(), c.High.Value(), sum, n))
		}
	}

	for _, b := range Bands {
		if t := c.BandTarget(b); t.IsSet() && t.Value() > game.BandRange(b).Size() {
			return NewConfigurationError(fmt.Sprintf("%s target %d exceeds the %d numbers in band %s",
				b, t.Value(), game.BandRange(b).Size(), game.BandRange(b)))
		}
	}

	return c.distributionSatisfiable(game)
}

// distributionSatisfiable checks the preference against the band targets and band sizes
func (c Criteria) distributionSatisfiable(game GameConfig) error {
	if band, ok := c.Distribution.favoredBand(); ok {
		need := MajorityThreshold(game.MainCount)
		if t := c.BandTarget(band); t.IsSet() && t.Value() < need {
			return NewConfigurationError(fmt.Sprintf("distribution %s needs at least %d %s numbers but %s target is %d",
				c.Distribution, need, band, band, t.Value()))
		}
		if size := game.BandRange(band).Size(); size < need {
			return NewConfigurationError(fmt.Sprintf("distribution %s needs %d numbers from band %s of size %d",
				c.Distribution, need, game.BandRange(band), size))
		}
		if free := game.MainCount - c.otherBandsTotal(band); free < need {
			return NewConfigurationError(fmt.Sprintf("distribution %s needs %d %s numbers but the other band targets leave %d",
				c.Distribution, need, band, free))
		}
		return nil
	}

	if c.Distribution == DistributionBalanced {
		if game.MainCount < len(Bands)*BalancedMinimum {
			return NewConfigurationError(fmt.Sprintf("balanced distribution needs main count of at least %d", len(Bands)*BalancedMinimum))
		}
		unset := 0
		for _, b := range Bands {
			t := c.BandTarget(b)
			if !t.IsSet() {
				unset++
				continue
			}
			if t.Value() < BalancedMinimum {
				return NewConfigurationError(fmt.Sprintf("balanced distribution conflicts with %s target %d", b, t.Value()))
			}
		}
		if free := game.MainCount - c.otherBandsTotal(-1); free < unset*BalancedMinimum {
			return NewConfigurationError(fmt.Sprintf("balanced distribution needs %d numbers for the unset bands but the band targets leave %d",
				unset*BalancedMinimum, free))
		}
	}
	return nil
}

// otherBandsTotal sums the set band targets, skipping band except
func (c Criteria) otherBandsTotal(except Band) int {
	total := 0
	for _, b := range Bands {
		if t := c.BandTarget(b); b != except && t.IsSet() {
			total += t.Value()
		}
	}
	return total
}

// parityCapacity counts the odd and even numbers in r
func parityCapacity(r Range) (odds, evens int) {
	for n := r.Min; n <= r.Max; n++ {
		if isOdd(n) {
			odds++
		} else {
			evens++
		}
	}
	return odds, evens
}
