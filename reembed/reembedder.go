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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder re-embeds every stored record with the configured embedder.
// Run after switching embedding models; mixing vectors from different
// models in one corpus makes distances meaningless.
type Reembedder struct {
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *RecordIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.RecordRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewRecordIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding operation over every stored record.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in store (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(records []*core.Record) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}
