package lottery

import (
	"encoding/json"
	"fmt"
	"time"
)

// Strategy selects how candidate combinations are produced
type Strategy string

const (
	// StrategyAuto uses banded construction when all band targets are set and consistent
	StrategyAuto Strategy = "auto"

	// StrategyRejection samples the whole main range and rejects until the criteria hold
	StrategyRejection Strategy = "rejection"

	// StrategyBanded samples the exact band counts directly, rejecting only on the
	// remaining parity and distribution filters
	StrategyBanded Strategy = "banded"
)

// ParseStrategy parses a strategy name; empty means auto
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyRejection, StrategyBanded:
		return Strategy(s), nil
	default:
		return "", ErrInvalidStrategy.Clone().WithDetails(fmt.Sprintf("%q", s))
	}
}

// Diagnostic records a line slot whose retry budget ran out
type Diagnostic struct {
	LineIndex int       `json:"line_index" yaml:"line_index"` // 1-based index of the line slot
	Attempts  int       `json:"attempts" yaml:"attempts"`     // attempts spent before giving up
	Error     error     `json:"-" yaml:"-"`                   // ErrRetryBudgetExhausted with details
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Could not generate valid line %d after %d attempts", d.LineIndex, d.Attempts)
}

// MarshalJSON adds the error message to the encoded diagnostic
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	temp := struct {
		LineIndex int       `json:"line_index"`
		Attempts  int       `json:"attempts"`
		ErrorMsg  string    `json:"error_message"`
		Timestamp time.Time `json:"timestamp"`
	}{
		LineIndex: d.LineIndex,
		Attempts:  d.Attempts,
		ErrorMsg:  d.String(),
		Timestamp: d.Timestamp,
	}
	if d.Error != nil {
		temp.ErrorMsg = d.Error.Error()
	}

	return json.Marshal(temp)
}

// newDiagnostic builds the warning for an exhausted line slot
func newDiagnostic(lineIndex, attempts int) Diagnostic {
	return Diagnostic{
		LineIndex: lineIndex,
		Attempts:  attempts,
		Error: ErrRetryBudgetExhausted.Clone().
			WithDetails(fmt.Sprintf("line %d after %d attempts", lineIndex, attempts)).
			WithMetadata("line_index", lineIndex).
			WithMetadata("attempts", attempts),
		Timestamp: time.Now(),
	}
}

// GenerationResult is the outcome of one generation request
type GenerationResult struct {
	ID            string        `json:"id" yaml:"id"`
	Requested     int           `json:"requested" yaml:"requested"`
	Lines         []ResultLine  `json:"lines" yaml:"lines"`
	Diagnostics   []Diagnostic  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	TotalAttempts int           `json:"total_attempts" yaml:"total_attempts"`
	Strategy      Strategy      `json:"strategy" yaml:"strategy"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// Completed returns the number of lines produced
func (r *GenerationResult) Completed() int { return len(r.Lines) }

// Failed returns the number of line slots that exhausted their retry budget
func (r *GenerationResult) Failed() int { return len(r.Diagnostics) }

// IsComplete returns true if every requested line was produced
func (r *GenerationResult) IsComplete() bool { return len(r.Lines) >= r.Requested }

// PartialSuccess reports a result with some, but not all, lines produced
func (r *GenerationResult) PartialSuccess() bool {
	return len(r.Lines) > 0 && len(r.Lines) < r.Requested
}

// SuccessRate returns the share of requested lines produced, as a percentage
func (r *GenerationResult) SuccessRate() float64 {
	if r.Requested == 0 {
		return 0.0
	}
	return float64(len(r.Lines)) / float64(r.Requested) * 100.0
}

// Validate checks the bookkeeping of the result
func (r *GenerationResult) Validate() error {
	if r.Requested <= 0 {
		return ErrInvalidCount
	}
	if len(r.Lines)+len(r.Diagnostics) > r.Requested {
		return ErrInvalidParameters.Clone().
			WithDetails(fmt.Sprintf("%d lines and %d diagnostics exceed %d requested", len(r.Lines), len(r.Diagnostics), r.Requested))
	}
	return nil
}
