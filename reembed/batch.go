package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

// BatchProcessor re-embeds batches of stored records.
type BatchProcessor struct {
	repo           storage.RecordRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.RecordRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of records and writes the new vectors back.
// The embedding call is retried with backoff; store updates are not retried.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.Record) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(vectors))
	}

	for i, record := range records {
		record.Vector = vectors[i]
		if _, err := bp.repo.UpdateRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to update record %q: %w", record.ExternalID, err)
		}
	}

	return nil
}
