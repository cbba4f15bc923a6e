// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// AdviceGenerator turns a prompt into free-text advice.
type AdviceGenerator interface {
	// Generate returns the generated text. An empty string is a valid reply.
	Generate(ctx context.Context, prompt string) (string, error)

	// IsAvailable reports whether the generator is configured.
	IsAvailable() bool
}
