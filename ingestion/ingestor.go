// Copyright 2025 Sothis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/source"
	"github.com/sothis-labs/recollect/storage"
)

const (
	defaultLimit     = 100
	maxLimit         = 1000
	defaultBatchSize = 10
)

// Ingestor orchestrates one ingestion run: fetch from a source, split into
// batches, embed, deduplicate, store.
type Ingestor struct {
	repository storage.RecordRepository
	embedder   ai.Embedder
	limit      int
	batchSize  int
	workers    int
	logger     *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLimit sets the maximum number of records fetched per run.
// Default is 100; values above 1000 are clamped to 1000.
func WithLimit(limit int) Option {
	return func(ing *Ingestor) {
		if limit > 0 {
			ing.limit = min(limit, maxLimit)
		}
	}
}

// WithBatchSize sets the number of records per embedding batch.
// Default is 10.
func WithBatchSize(size int) Option {
	return func(ing *Ingestor) {
		if size > 0 {
			ing.batchSize = size
		}
	}
}

// WithWorkers sets the number of concurrent batch workers. Default is 1,
// which processes batches sequentially in presentation order.
func WithWorkers(workers int) Option {
	return func(ing *Ingestor) {
		if workers > 0 {
			ing.workers = workers
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ing *Ingestor) {
		if logger != nil {
			ing.logger = logger
		}
	}
}

// NewIngestor creates an ingestor writing to the given repository and
// embedding through the given provider.
func NewIngestor(repository storage.RecordRepository, provider ai.Provider, opts ...Option) (*Ingestor, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	ing := &Ingestor{
		repository: repository,
		embedder:   provider.Embedder(),
		limit:      defaultLimit,
		batchSize:  defaultBatchSize,
		workers:    1,
		logger:     slog.Default().With("component", "ingestor"),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing, nil
}

// Ingest runs one ingestion pass over src and returns the run's statistics.
//
// A fetch failure is returned wrapped in ErrFetchFailed with zero Stats.
// After a successful fetch the run always completes with best-effort
// semantics: embedding and store failures are absorbed into the Errors
// counter and the remaining batches still run. When ctx is cancelled
// mid-run, no new batches start, in-flight batches finish, and the partial
// Stats are returned together with the context error.
func (ing *Ingestor) Ingest(ctx context.Context, src source.Source, containerID string) (core.Stats, error) {
	if src == nil {
		return core.Stats{}, ErrSourceRequired
	}

	records, err := src.FetchRecords(ctx, containerID, ing.limit)
	if err != nil {
		return core.Stats{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	stats := core.Stats{TotalFetched: len(records)}
	ing.logger.Info("fetched records",
		"count", len(records), "container", containerID)

	if len(records) == 0 {
		return stats, nil
	}

	batches := slices.Collect(slices.Chunk(records, ing.batchSize))

	var runErr error
	if ing.workers > 1 && len(batches) > 1 {
		runErr = ing.runConcurrent(ctx, batches, &stats)
	} else {
		runErr = ing.runSequential(ctx, batches, &stats)
	}

	ing.logger.Info("ingestion finished",
		"fetched", stats.TotalFetched,
		"stored", stats.NewStored,
		"existing", stats.AlreadyExists,
		"skipped", stats.SkippedNoText,
		"errors", stats.Errors)
	return stats, runErr
}

func (ing *Ingestor) runSequential(ctx context.Context, batches [][]*core.Record, stats *core.Stats) error {
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Add(ing.processBatch(ctx, batch))
	}
	return nil
}

// runConcurrent processes batches on a bounded ants pool. Workers share the
// repository; badger transactions keep concurrent inserts safe.
func (ing *Ingestor) runConcurrent(ctx context.Context, batches [][]*core.Record, stats *core.Stats) error {
	pool, err := ants.NewPool(ing.workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			partial := ing.processBatch(ctx, batch)

			mu.Lock()
			stats.Add(partial)
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			stats.Errors += len(batch)
			mu.Unlock()
			ing.logger.Error("failed to submit batch", "err", submitErr)
		}
	}
	wg.Wait()
	return ctx.Err()
}
