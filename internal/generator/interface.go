package generator

import "context"

// Generator defines the interface for card and scenario generation.
// This interface enables testability by allowing mock implementations.
type Generator interface {
	GenerateCards(ctx context.Context, sourceText string, count int) ([]GeneratedCard, error)
	GenerateScenario(ctx context.Context, sourceText string, difficulty string, questionCount int) (*GeneratedScenario, error)
}

// Ensure both implementations satisfy the interface
var (
	_ Generator = (*Client)(nil)
	_ Generator = (*Fallback)(nil)
)
