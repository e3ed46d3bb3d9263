package analysis

import (
	"context"
	"errors"
	"fmt"
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

func setupRepositories(t *testing.T) (storage.RecordRepository, storage.AnalysisRepository) {
	t.Helper()

	recordRepo, analysisRepo, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		analysisRepo.Close()
		recordRepo.Close()
		backend.Close()
	})
	return recordRepo, analysisRepo
}

func insertRecords(t *testing.T, repo storage.RecordRepository, containerID string, texts ...string) {
	t.Helper()
	base := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	for i, text := range texts {
		_, err := repo.InsertRecord(context.Background(), &core.Record{
			ExternalID:  fmt.Sprintf("%s-%d", containerID, i),
			ContainerID: containerID,
			Text:        text,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestNewAnalyzer(t *testing.T) {
	recordRepo, analysisRepo := setupRepositories(t)

	t.Run("requires record repository", func(t *testing.T) {
		_, err := NewAnalyzer(nil, analysisRepo, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrRecordRepositoryRequired)
	})

	t.Run("requires analysis repository", func(t *testing.T) {
		_, err := NewAnalyzer(recordRepo, nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrAnalysisRepositoryRequired)
	})

	t.Run("requires provider", func(t *testing.T) {
		_, err := NewAnalyzer(recordRepo, analysisRepo, nil)
		assert.ErrorIs(t, err, ErrProviderRequired)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		recordRepo, analysisRepo := setupRepositories(t)
		a, err := NewAnalyzer(recordRepo, analysisRepo, mock.NewMockProvider())
		require.NoError(t, err)

		_, err = a.Summarize(context.Background(), "", 10)
		assert.ErrorIs(t, err, ErrNoRecords)
	})

	t.Run("persists and returns the analysis", func(t *testing.T) {
		recordRepo, analysisRepo := setupRepositories(t)
		insertRecords(t, recordRepo, "team", "remember to buy milk", "dentist tuesday 10am")

		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "Topics: errands and appointments.", nil
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

		a, err := NewAnalyzer(recordRepo, analysisRepo, provider, WithModelName("llama3.1:8b"))
		require.NoError(t, err)

		analysis, err := a.Summarize(context.Background(), "team", 10)
		require.NoError(t, err)

		assert.NotZero(t, analysis.Id)
		assert.Equal(t, KindSummary, analysis.Kind)
		assert.Equal(t, "Topics: errands and appointments.", analysis.Result)
		assert.Equal(t, "llama3.1:8b", analysis.Model)
		assert.False(t, analysis.CreatedAt.IsZero())

		stored, err := analysisRepo.GetRecentAnalyses(context.Background(), KindSummary, 5)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, analysis.Id, stored[0].Id)
		assert.Equal(t, analysis.Result, stored[0].Result)
	})

	t.Run("prompt lists records oldest first", func(t *testing.T) {
		recordRepo, analysisRepo := setupRepositories(t)
		insertRecords(t, recordRepo, "team", "first message", "second message")

		completer := mock.NewMockCompleter()
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

		a, err := NewAnalyzer(recordRepo, analysisRepo, provider)
		require.NoError(t, err)

		_, err = a.Summarize(context.Background(), "team", 10)
		require.NoError(t, err)

		prompt := completer.LastPrompt()
		assert.Contains(t, prompt, "- first message")
		assert.Contains(t, prompt, "- second message")
		assert.Less(t,
			strings.Index(prompt, "first message"),
			strings.Index(prompt, "second message"))
	})

	t.Run("scopes to container", func(t *testing.T) {
		recordRepo, analysisRepo := setupRepositories(t)
		insertRecords(t, recordRepo, "team", "team note")
		insertRecords(t, recordRepo, "personal", "private note")

		completer := mock.NewMockCompleter()
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

		a, err := NewAnalyzer(recordRepo, analysisRepo, provider)
		require.NoError(t, err)

		_, err = a.Summarize(context.Background(), "team", 10)
		require.NoError(t, err)

		assert.Contains(t, completer.LastPrompt(), "team note")
		assert.NotContains(t, completer.LastPrompt(), "private note")
	})

	t.Run("completion failure is not persisted", func(t *testing.T) {
		recordRepo, analysisRepo := setupRepositories(t)
		insertRecords(t, recordRepo, "team", "a note")

		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model offline")
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

		a, err := NewAnalyzer(recordRepo, analysisRepo, provider)
		require.NoError(t, err)

		_, err = a.Summarize(context.Background(), "team", 10)
		assert.Error(t, err)

		stored, err := analysisRepo.GetRecentAnalyses(context.Background(), "", 5)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestRecent(t *testing.T) {
	recordRepo, analysisRepo := setupRepositories(t)
	insertRecords(t, recordRepo, "team", "a note")

	a, err := NewAnalyzer(recordRepo, analysisRepo, mock.NewMockProvider())
	require.NoError(t, err)

	_, err = a.Summarize(context.Background(), "team", 10)
	require.NoError(t, err)
	_, err = a.Summarize(context.Background(), "team", 10)
	require.NoError(t, err)

	analyses, err := a.Recent(context.Background(), KindSummary, 10)
	require.NoError(t, err)
	assert.Len(t, analyses, 2)
}
