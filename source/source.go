package source

import (
	"context"

	"github.com/sothis-labs/recollect/core"
)

// Source delivers records from an external system for ingestion.
//
// FetchRecords returns up to limit records, in the order the backing system
// presents them. When containerID is non-empty, only records from that
// container are returned. Returning fewer than limit records is normal;
// returning records already ingested is also fine, the pipeline deduplicates.
type Source interface {
	FetchRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error)
}

// Slice is a Source backed by a fixed in-memory record list.
// Useful for tests and for seeding a store from programmatic data.
type Slice struct {
	records []*core.Record
}

// NewSlice creates a Slice source over the given records.
// The slice is not copied; callers should not mutate it afterwards.
func NewSlice(records []*core.Record) *Slice {
	return &Slice{records: records}
}

// FetchRecords returns up to limit records, filtered by containerID when set.
func (s *Slice) FetchRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*core.Record, 0, min(limit, len(s.records)))
	for _, rec := range s.records {
		if len(out) >= limit {
			break
		}
		if containerID != "" && rec.ContainerID != containerID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
