package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails; callers on the
	// query path treat any error as "no vector" and degrade rather than abort.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces an answer from a system prompt and a user query by
// trying an ordered list of backend models.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the answer text for the given prompt and query.
	// It never fails from the caller's perspective: backend errors are
	// encoded into the returned text, because the caller persists whatever
	// comes back as the conversation response. Rate-limited models are
	// skipped in favor of the next model in the preference order; any other
	// backend error short-circuits with an error message naming the model.
	Generate(ctx context.Context, systemPrompt, query string) string
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the answer generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
