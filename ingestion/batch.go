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
	"errors"

	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

// processBatch runs the per-batch pipeline: filter text-less records, embed
// the rest in one provider call, then deduplicate and insert one record at a
// time. The returned partial Stats leave TotalFetched at zero; the caller
// sets it once from the fetch.
func (ing *Ingestor) processBatch(ctx context.Context, batch []*core.Record) core.Stats {
	var stats core.Stats

	withText := make([]*core.Record, 0, len(batch))
	for _, rec := range batch {
		if !rec.HasText() {
			stats.SkippedNoText++
			continue
		}
		withText = append(withText, rec)
	}
	if len(withText) == 0 {
		return stats
	}

	texts := make([]string, len(withText))
	for i, rec := range withText {
		texts[i] = rec.Text
	}

	// One embedding call per batch. On failure the whole batch is counted
	// as errors and the run moves on; re-ingestion picks these up later.
	vectors, err := ing.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(withText) {
		if err != nil {
			ing.logger.Error("batch embedding failed", "count", len(withText), "err", err)
		} else {
			ing.logger.Error("embedder returned wrong vector count",
				"want", len(withText), "got", len(vectors))
		}
		stats.Errors += len(withText)
		return stats
	}

	for i, rec := range withText {
		rec.Vector = vectors[i]

		existing, err := ing.repository.GetRecordByExternalID(ctx, rec.ExternalID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			ing.logger.Error("lookup failed", "external_id", rec.ExternalID, "err", err)
			stats.Errors++
			continue
		}
		if existing != nil {
			stats.AlreadyExists++
			continue
		}

		if _, err := ing.repository.InsertRecord(ctx, rec); err != nil {
			// A concurrent worker may have inserted the same record after
			// our lookup; the uniqueness constraint is the real dedup.
			if errors.Is(err, storage.ErrDuplicateKey) {
				stats.AlreadyExists++
				continue
			}
			ing.logger.Error("insert failed", "external_id", rec.ExternalID, "err", err)
			stats.Errors++
			continue
		}
		stats.NewStored++
	}

	return stats
}
