package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sothis-labs/recollect/ai/mock"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
	badgerstore "github.com/sothis-labs/recollect/storage/badger"
)

func setupRepository(t *testing.T) storage.RecordRepository {
	t.Helper()

	recordRepo, analysisRepo, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		analysisRepo.Close()
		recordRepo.Close()
		backend.Close()
	})
	return recordRepo
}

func insertRecord(t *testing.T, repo storage.RecordRepository, externalID, text string, vector []float32) {
	t.Helper()
	_, err := repo.InsertRecord(context.Background(), &core.Record{
		ExternalID:  externalID,
		ContainerID: "team",
		Text:        text,
		Timestamp:   time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Vector:      vector,
	})
	require.NoError(t, err)
}

// fixedEmbedder returns the same vector for every query.
func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	e := mock.NewMockEmbedder()
	e.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return e
}

func TestNewSearcher(t *testing.T) {
	repo := setupRepository(t)

	t.Run("requires repository", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.ErrorIs(t, err, ErrProviderRequired)
	})

	t.Run("valid", func(t *testing.T) {
		s, err := NewSearcher(repo, mock.NewMockProvider())
		require.NoError(t, err)
		assert.NotNil(t, s)
	})
}

func TestSearch(t *testing.T) {
	t.Run("empty corpus returns empty slice", func(t *testing.T) {
		s, err := NewSearcher(setupRepository(t), mock.NewMockProvider())
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "anything", 5)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("ranks by ascending distance", func(t *testing.T) {
		repo := setupRepository(t)
		insertRecord(t, repo, "far", "far away", []float32{3, 0, 0})
		insertRecord(t, repo, "near", "right here", []float32{1, 0, 0})
		insertRecord(t, repo, "mid", "in between", []float32{2, 0, 0})

		provider := mock.NewMockProviderWithServices(
			fixedEmbedder([]float32{0, 0, 0}), mock.NewMockCompleter())
		s, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "query", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "right here", results[0].Excerpt)
		assert.Equal(t, "in between", results[1].Excerpt)
		assert.Equal(t, "far away", results[2].Excerpt)
		assert.Less(t, results[0].Distance, results[1].Distance)
		assert.Less(t, results[1].Distance, results[2].Distance)
	})

	t.Run("truncates to k", func(t *testing.T) {
		repo := setupRepository(t)
		insertRecord(t, repo, "a", "one", []float32{1, 0, 0})
		insertRecord(t, repo, "b", "two", []float32{2, 0, 0})
		insertRecord(t, repo, "c", "three", []float32{3, 0, 0})

		provider := mock.NewMockProviderWithServices(
			fixedEmbedder([]float32{0, 0, 0}), mock.NewMockCompleter())
		s, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "query", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("query embedding failure aborts", func(t *testing.T) {
		repo := setupRepository(t)
		insertRecord(t, repo, "a", "one", []float32{1, 0, 0})

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("model offline")
		}
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockCompleter())
		s, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "query", 5)
		assert.ErrorIs(t, err, ErrQueryEmbedding)
		assert.Nil(t, results)
	})

	t.Run("carries record timestamp", func(t *testing.T) {
		repo := setupRepository(t)
		insertRecord(t, repo, "a", "one", []float32{1, 0, 0})

		provider := mock.NewMockProviderWithServices(
			fixedEmbedder([]float32{0, 0, 0}), mock.NewMockCompleter())
		s, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "query", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), results[0].Timestamp.UTC())
	})

	t.Run("long text is excerpted after ranking", func(t *testing.T) {
		repo := setupRepository(t)
		long := strings.Repeat("а", 500) // multi-byte runes
		insertRecord(t, repo, "long", long, []float32{1, 0, 0})

		provider := mock.NewMockProviderWithServices(
			fixedEmbedder([]float32{0, 0, 0}), mock.NewMockCompleter())
		s, err := NewSearcher(repo, provider)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "query", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.LessOrEqual(t, len([]rune(results[0].Excerpt)), excerptRuneLimit+1)
	})
}

func TestTruncateExcerpt(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short text unchanged", "hello", "hello"},
		{"exact limit unchanged", strings.Repeat("x", 200), strings.Repeat("x", 200)},
		{"over limit truncated", strings.Repeat("x", 201), strings.Repeat("x", 200) + "…"},
		{"whitespace trimmed", "  hi  ", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateExcerpt(tt.text, 200))
		})
	}
}

func TestTruncateExcerptRuneSafe(t *testing.T) {
	text := strings.Repeat("日", 250)
	got := truncateExcerpt(text, 200)
	assert.Equal(t, strings.Repeat("日", 200)+"…", got)
}

// recordingMonitor captures monitor callbacks for assertions.
type recordingMonitor struct {
	started  bool
	embedded bool
	ranked   int
	finished int
}

func (m *recordingMonitor) Start(_ string)                      { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(_ []float32)     { m.embedded = true }
func (m *recordingMonitor) AfterRanking(r []*core.ScoredRecord) { m.ranked = len(r) }
func (m *recordingMonitor) Finish(r []Result)                   { m.finished = len(r) }

func TestSearchWithMonitor(t *testing.T) {
	repo := setupRepository(t)
	insertRecord(t, repo, "a", "one", []float32{1, 0, 0})

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{0, 0, 0}), mock.NewMockCompleter())
	s, err := NewSearcher(repo, provider)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := s.SearchWithMonitor(context.Background(), "query", 5, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.embedded)
	assert.Equal(t, len(results), monitor.ranked)
	assert.Equal(t, len(results), monitor.finished)
}
