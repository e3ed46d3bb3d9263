package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

// RecordRepository implements storage.RecordRepository for BadgerDB.
//
// Records are keyed by an ID derived from the external identifier, which
// gives the store its uniqueness constraint: inserting the same external ID
// twice hits the same key. Two concurrent inserts racing on one key are
// serialized by badger's transaction conflict detection; the loser's commit
// error is mapped to storage.ErrDuplicateKey.
type RecordRepository struct {
	backend *Backend
}

var _ storage.RecordRepository = (*RecordRepository)(nil)

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(backend *Backend) (storage.RecordRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &RecordRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *RecordRepository) Close() error {
	return nil
}

// NearestRecords delegates to the backend.
func (r *RecordRepository) NearestRecords(ctx context.Context, vector []float32, k int) ([]*core.ScoredRecord, error) {
	return r.backend.NearestRecords(ctx, vector, k)
}

// GetRecordByExternalID retrieves a record by its source-assigned identifier.
func (r *RecordRepository) GetRecordByExternalID(ctx context.Context, externalID string) (*core.Record, error) {
	var result *core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := readRecord(tx, makeRecordKey(core.IDFromContent(externalID)))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// InsertRecord persists a new record with its indexes.
func (r *RecordRepository) InsertRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	id := core.IDFromContent(record.ExternalID)
	key := makeRecordKey(id)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			return storage.ErrDuplicateKey
		}

		record.InsertedAt = time.Now().UTC()
		record.UpdatedAt = record.InsertedAt

		if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
			return err
		}
		if err := tx.Set(makeRecordDateKey(record.Timestamp, id), storage.MarshalID(id)); err != nil {
			return err
		}
		if err := tx.Set(makeRecordContainerKey(record.ContainerID, record.Timestamp, id), storage.MarshalID(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	// A conflict means another transaction inserted this key between our
	// read and our commit. The external ID exists either way.
	if errors.Is(err, badger.ErrConflict) {
		err = storage.ErrDuplicateKey
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateRecord replaces an existing record, refreshing UpdatedAt.
func (r *RecordRepository) UpdateRecord(ctx context.Context, record *core.Record) (*core.Record, error) {
	id := core.IDFromContent(record.ExternalID)
	key := makeRecordKey(id)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		record.InsertedAt = old.InsertedAt
		record.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalRecord(record)); err != nil {
			return err
		}

		if !old.Timestamp.Equal(record.Timestamp) || old.ContainerID != record.ContainerID {
			if err := tx.Delete(makeRecordDateKey(old.Timestamp, id)); err != nil {
				return err
			}
			if err := tx.Delete(makeRecordContainerKey(old.ContainerID, old.Timestamp, id)); err != nil {
				return err
			}
			if err := tx.Set(makeRecordDateKey(record.Timestamp, id), storage.MarshalID(id)); err != nil {
				return err
			}
			if err := tx.Set(makeRecordContainerKey(record.ContainerID, record.Timestamp, id), storage.MarshalID(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetRecentRecords retrieves up to limit records newest first, optionally
// restricted to a container.
func (r *RecordRepository) GetRecentRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error) {
	var prefix []byte
	var startKey []byte
	if containerID == "" {
		prefix = []byte(recordDatePrefix + ":")
		startKey = makePartialRecordDateKey(maxIndexTime)
	} else {
		prefix = makePartialRecordContainerKey(containerID)
		startKey = makeRecordContainerKey(containerID, maxIndexTime, core.ID(^uint64(0)))
	}

	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecordsByDateRange retrieves records where start <= Timestamp < end,
// ordered by timestamp ascending.
func (r *RecordRepository) GetRecordsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Record, error) {
	var results []*core.Record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialRecordDateKey(start)
		endKey := makePartialRecordDateKey(end)
		prefix := []byte(recordDatePrefix + ":")

		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) || bytes.Compare(key, endKey) >= 0 {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := readRecord(tx, makeRecordKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// maxIndexTime is the upper seek bound for reverse index scans.
var maxIndexTime = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

// readRecord reads a record from the transaction.
// Returns nil without error when the key is absent.
func readRecord(tx *badger.Txn, key []byte) (*core.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Record
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalRecord(val)
		return unmarshalErr
	})
	return record, err
}
