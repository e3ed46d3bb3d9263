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
	"time"

	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

const (
	// DefaultBatchSize is the default number of records to process per batch
	DefaultBatchSize = 100
)

// Wide date range covering every stored record.
var (
	iterStart = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	iterEnd   = time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC)
)

// RecordIterator iterates over all stored records in batches, in timestamp
// order.
type RecordIterator struct {
	repo      storage.RecordRepository
	batchSize int
}

// NewRecordIterator creates a new record iterator.
// batchSize: number of records per batch (must be > 0)
func NewRecordIterator(repo storage.RecordRepository, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RecordIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of records. Iteration stops on the first
// error from fn; context cancellation is checked between batches.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]*core.Record) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := it.repo.GetRecordsByDateRange(ctx, iterStart, iterEnd)
	if err != nil {
		return err
	}

	for i := 0; i < len(records); i += it.batchSize {
		end := min(i+it.batchSize, len(records))
		if err := fn(records[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// Count returns the total number of stored records.
func (it *RecordIterator) Count(ctx context.Context) (int, error) {
	records, err := it.repo.GetRecordsByDateRange(ctx, iterStart, iterEnd)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
