package llm

import (
	"context"
)

// LLMClient is the drafting collaborator: one prompt in, one completion out.
// Callers must treat it as slow and unreliable; wrap with WithRetry at the
// call site.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
