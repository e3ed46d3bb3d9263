package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
//
// Callers are responsible for never passing empty text: the ingestion
// pipeline filters text-less records before the provider is reached.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. Batch calls amortize the provider round-trip; the returned
	// slice contains one embedding per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces a free-form completion for a prompt. Used by the
// analysis layer to summarize stored records.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. One implementation exists per backend; which one
// runs is a configuration decision made at startup.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the completion service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
