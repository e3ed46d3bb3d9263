package openai

import (
	"context"
	"log/slog"

	"github.com/sothis-labs/recollect/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder talks to an OpenAI-compatible embeddings endpoint. Ingestion
// sends whole batches through EmbedTexts; EmbedText serves single search
// queries.
type Embedder struct {
	client embeddings.Embedder
	logger *slog.Logger
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Local services (Ollama, LocalAI) ignore the token, but the client
	// insists on one.
	llm, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	client, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		client: client,
		logger: slog.Default().With("component", "embedder"),
	}, nil
}

// NewEmbedder creates an embedder for the configured embedding host and model.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds a single text, typically a search query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.client.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("query embedding failed", "err", err)
		return nil, err
	}
	return vector, nil
}

// EmbedTexts embeds a batch of texts, returning one vector per input in
// the same order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("embedding batch", "count", len(texts))

	vectors, err := e.client.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("batch embedding failed", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
