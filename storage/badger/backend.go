package badger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

const (
	defaultSequenceBandwidth = 100
)

// Backend wraps a BadgerDB instance and provides low-level operations.
// The distance metric is fixed at open time and applies to the whole corpus.
type Backend struct {
	db     *badger.DB
	metric Metric
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path with the given
// distance metric. Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool, metric Metric) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		metric: metric,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// Metric returns the distance metric the backend was opened with.
func (b *Backend) Metric() Metric {
	return b.metric
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// GetSequence returns a BadgerDB sequence for generating sequential IDs.
func (b *Backend) GetSequence(name string) (*badger.Sequence, error) {
	return b.db.GetSequence([]byte(name), defaultSequenceBandwidth)
}

// NearestRecords scans the corpus and returns up to k records ranked by
// ascending distance from the query vector under the backend's metric.
// Records without an embedding, or embedded at a different dimensionality
// than the query, are excluded from the candidate set.
// Ties keep key order: the scan visits keys in order and the sort is stable.
func (b *Backend) NearestRecords(ctx context.Context, vector []float32, k int) ([]*core.ScoredRecord, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", storage.ErrInvalidQuery, k)
	}

	var results []*core.ScoredRecord
	var mismatched int

	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()

			// Skip index keys, which share the record prefix
			if bytes.HasPrefix(key, []byte(recordDatePrefix)) ||
				bytes.HasPrefix(key, []byte(recordContainerPrefix)) {
				continue
			}

			var record *core.Record
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}
			// A dimension mismatch means the record was embedded under a
			// different model; distances against it are meaningless.
			if len(record.Vector) != len(vector) {
				mismatched++
				continue
			}

			results = append(results, &core.ScoredRecord{
				Record:   record,
				Distance: b.metric.Distance(vector, record.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	if mismatched > 0 {
		b.logger.Warn("excluded records with mismatched vector dimensions, reembed the corpus",
			"count", mismatched, "query_dims", len(vector))
	}

	slices.SortStableFunc(results, func(a, b *core.ScoredRecord) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}

	return results, nil
}
