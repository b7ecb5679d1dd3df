package core

import "context"

// Embedder converts text into a vector. Provider identity is tenant
// configuration, never hardcoded in pipeline code.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GenerationRequest struct {
	System   string
	History  []Turn // oldest first
	UserText string
	Settings TenantAISettings
}

type GenerationResult struct {
	Text       string
	TokensUsed int
}

// Generator produces the raw model answer from a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}
