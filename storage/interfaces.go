package storage

import (
	"context"
	"time"

	"github.com/sothis-labs/recollect/core"
)

// RecordRepository provides operations for the message corpus.
// Implementations must be thread-safe: ingestion may run batches from
// multiple workers over one shared repository.
type RecordRepository interface {
	// GetRecordByExternalID retrieves a record by its source-assigned
	// identifier. Returns ErrNotFound if no such record exists.
	GetRecordByExternalID(ctx context.Context, externalID string) (*core.Record, error)

	// InsertRecord persists a new record, assigning InsertedAt/UpdatedAt.
	// Returns ErrDuplicateKey if a record with the same ExternalID already
	// exists; the uniqueness constraint holds under concurrent writers, so
	// callers can rely on at-most-once storage without any prior lookup.
	// Ingestion never updates stored records: re-ingestion is a no-op.
	InsertRecord(ctx context.Context, record *core.Record) (*core.Record, error)

	// UpdateRecord replaces an existing record, refreshing UpdatedAt.
	// Used by maintenance tooling (re-embedding), not by ingestion.
	// Returns ErrNotFound if the record doesn't exist.
	UpdateRecord(ctx context.Context, record *core.Record) (*core.Record, error)

	// NearestRecords returns up to k stored records ranked by ascending
	// distance from the query vector under the store's metric. Records
	// without an embedding are excluded from the candidate set entirely.
	// Ties are broken by key order, which is stable across calls.
	NearestRecords(ctx context.Context, vector []float32, k int) ([]*core.ScoredRecord, error)

	// GetRecentRecords retrieves up to limit records for a container,
	// newest first. An empty containerID selects all containers.
	GetRecentRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error)

	// GetRecordsByDateRange retrieves records where start <= Timestamp < end,
	// ordered by timestamp ascending.
	GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Record, error)

	// Close releases repository resources.
	Close() error
}

// AnalysisRepository provides operations for persisted LLM analyses.
type AnalysisRepository interface {
	// AddAnalysis persists an analysis, assigning its ID and CreatedAt.
	AddAnalysis(ctx context.Context, analysis *core.Analysis) (*core.Analysis, error)

	// GetRecentAnalyses retrieves up to limit analyses, newest first,
	// optionally filtered by kind ("" = all kinds).
	GetRecentAnalyses(ctx context.Context, kind string, limit int) ([]*core.Analysis, error)

	// Close releases repository resources.
	Close() error
}
