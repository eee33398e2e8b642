package core

import "context"

// EmbeddingProvider maps text to fixed-dimension dense vectors.
// EmbedTexts is order-preserving: vector i belongs to texts[i].
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider generates a completion for a system/user prompt pair.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
