package badger

import (
	"context"
	"testing"
	"time"

	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true, MetricL2)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.Equal(t, MetricL2, backend.Metric())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	backend, err := OpenBackend(t.TempDir(), false, MetricL2)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true, MetricL2)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func insertTestRecord(t *testing.T, repo storage.RecordRepository, externalID string, vector []float32) *core.Record {
	t.Helper()
	record, err := repo.InsertRecord(context.Background(), &core.Record{
		ExternalID:  externalID,
		ContainerID: "saved",
		Text:        "message " + externalID,
		Timestamp:   time.Now().UTC(),
		Vector:      vector,
	})
	require.NoError(t, err)
	return record
}

func TestNearestRecords_Empty(t *testing.T) {
	backend, err := OpenBackend("", true, MetricL2)
	require.NoError(t, err)
	defer backend.Close()

	results, err := backend.NearestRecords(context.Background(), []float32{0.1, 0.2, 0.3}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNearestRecords_InvalidK(t *testing.T) {
	backend, err := OpenBackend("", true, MetricL2)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.NearestRecords(context.Background(), []float32{0.1}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestNearestRecords_RankedAscending(t *testing.T) {
	recordRepo, analysisRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		analysisRepo.Close()
		recordRepo.Close()
		backend.Close()
	}()

	// Vectors at known L2 distances from the origin query
	insertTestRecord(t, recordRepo, "far", []float32{3, 0, 0})
	insertTestRecord(t, recordRepo, "near", []float32{1, 0, 0})
	insertTestRecord(t, recordRepo, "mid", []float32{2, 0, 0})

	query := []float32{0, 0, 0}
	results, err := backend.NearestRecords(context.Background(), query, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "near", results[0].Record.ExternalID)
	assert.Equal(t, "mid", results[1].Record.ExternalID)
	assert.Equal(t, "far", results[2].Record.ExternalID)
	assert.InDelta(t, 1.0, results[0].Distance, 1e-5)
	assert.InDelta(t, 2.0, results[1].Distance, 1e-5)
	assert.InDelta(t, 3.0, results[2].Distance, 1e-5)
}

func TestNearestRecords_TruncatesToK(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	for i, v := range []float32{5, 1, 4, 2, 3} {
		insertTestRecord(t, recordRepo, string(rune('a'+i)), []float32{v})
	}

	results, err := backend.NearestRecords(context.Background(), []float32{0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestNearestRecords_ExcludesUnembedded(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	insertTestRecord(t, recordRepo, "embedded", []float32{1, 1})
	insertTestRecord(t, recordRepo, "unembedded", nil)

	results, err := backend.NearestRecords(context.Background(), []float32{0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "embedded", results[0].Record.ExternalID)
}

func TestNearestRecords_ExcludesMismatchedDimensions(t *testing.T) {
	recordRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	// "stale" was embedded before a model change to a different
	// dimensionality; it must never be ranked against the new queries.
	insertTestRecord(t, recordRepo, "current", []float32{1, 0, 0})
	insertTestRecord(t, recordRepo, "stale", []float32{1, 0, 0, 0, 0})

	results, err := backend.NearestRecords(context.Background(), []float32{0, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "current", results[0].Record.ExternalID)
}

func TestMetricDistance(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		a, b   []float32
		want   float32
	}{
		{"l2 identical", MetricL2, []float32{1, 2}, []float32{1, 2}, 0},
		{"l2 unit apart", MetricL2, []float32{0, 0}, []float32{1, 0}, 1},
		{"l2 pythagorean", MetricL2, []float32{0, 0}, []float32{3, 4}, 5},
		{"cosine identical", MetricCosine, []float32{1, 0}, []float32{2, 0}, 0},
		{"cosine orthogonal", MetricCosine, []float32{1, 0}, []float32{0, 1}, 1},
		{"cosine opposite", MetricCosine, []float32{1, 0}, []float32{-1, 0}, 2},
		{"cosine zero vector", MetricCosine, []float32{0, 0}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.metric.Distance(tt.a, tt.b), 1e-5)
		})
	}
}

func TestParseMetric(t *testing.T) {
	assert.Equal(t, MetricCosine, ParseMetric("cosine"))
	assert.Equal(t, MetricL2, ParseMetric("l2"))
	assert.Equal(t, MetricL2, ParseMetric(""))
	assert.Equal(t, "cosine", MetricCosine.String())
	assert.Equal(t, "l2", MetricL2.String())
}
