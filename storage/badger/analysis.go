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

// AnalysisRepository implements storage.AnalysisRepository for BadgerDB.
// Analyses have no external identity, so IDs come from a badger sequence.
type AnalysisRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AnalysisRepository = (*AnalysisRepository)(nil)

// NewAnalysisRepository creates a new AnalysisRepository.
func NewAnalysisRepository(backend *Backend) (storage.AnalysisRepository, error) {
	idSeq, err := backend.GetSequence(analysisIDSeq)
	if err != nil {
		return nil, err
	}
	return &AnalysisRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AnalysisRepository) Close() error {
	return r.idSeq.Release()
}

// AddAnalysis persists an analysis, assigning its ID and CreatedAt.
func (r *AnalysisRepository) AddAnalysis(ctx context.Context, analysis *core.Analysis) (*core.Analysis, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// Badger sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		analysis.Id = core.ID(nextID)
		analysis.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeAnalysisKey(analysis.Id), storage.MarshalAnalysis(analysis)); err != nil {
			return err
		}
		if err := tx.Set(makeAnalysisDateKey(analysis.CreatedAt, analysis.Id), storage.MarshalID(analysis.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// GetRecentAnalyses retrieves up to limit analyses newest first, optionally
// filtered by kind.
func (r *AnalysisRepository) GetRecentAnalyses(ctx context.Context, kind string, limit int) ([]*core.Analysis, error) {
	var results []*core.Analysis
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(analysisDatePrefix + ":")
		startKey := makeAnalysisDateKey(maxIndexTime, core.ID(^uint64(0)))

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var analysisID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				analysisID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			analysis, err := readAnalysis(tx, makeAnalysisKey(analysisID))
			if err != nil {
				return err
			}
			if analysis == nil {
				continue
			}
			if kind != "" && analysis.Kind != kind {
				continue
			}
			results = append(results, analysis)
		}
		return nil
	}, false)

	return results, err
}

// readAnalysis reads an analysis from the transaction.
// Returns nil without error when the key is absent.
func readAnalysis(tx *badger.Txn, key []byte) (*core.Analysis, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var analysis *core.Analysis
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		analysis, unmarshalErr = storage.UnmarshalAnalysis(val)
		return unmarshalErr
	})
	return analysis, err
}
