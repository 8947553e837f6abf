package lottery

import "context"

// ProgressCallback is invoked after each accepted line
type ProgressCallback func(completed, total int, line ResultLine)

// LineGenerator defines the interface for constrained line generation
type LineGenerator interface {
	// Generate produces up to criteria.Lines lines satisfying criteria
	Generate(ctx context.Context, criteria Criteria) (*GenerationResult, error)

	// GenerateWithProgress is Generate with a per-line progress callback
	GenerateWithProgress(ctx context.Context, criteria Criteria, progress ProgressCallback) (*GenerationResult, error)
}
