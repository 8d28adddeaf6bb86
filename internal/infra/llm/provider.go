// Provider interfaces. Adapters (Anthropic, Ollama) implement these so the
// application is never coupled to a specific LLM vendor.
package llm

import "context"

// GenerationProvider produces assistant responses, optionally calling tools.
type GenerationProvider interface {
	// Generate performs a non-streaming generation call.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// EmbeddingProvider computes dense vector representations of texts.
type EmbeddingProvider interface {
	// Embed computes embeddings for a batch of texts.
	Embed(ctx context.Context, req EmbedRequest) (*EmbedResponse, error)

	// HealthCheck returns nil if the provider is reachable and operational.
	HealthCheck(ctx context.Context) error
}
