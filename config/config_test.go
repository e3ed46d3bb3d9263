package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("full file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
store:
  path: /var/lib/recollect
  metric: cosine
ai:
  embedding_host: http://embed:11434
  embedding_model: text-embedding-3-small
  completion_host: http://complete:11434
  completion_model: gpt-4o-mini
  embedding_dims: 1536
ingest:
  limit: 500
  batch_size: 25
  workers: 4
telegram:
  token: secret-token
  container: "12345"
  buffer_size: 200
  flush_interval_seconds: 30
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/var/lib/recollect", cfg.Store.Path)
		assert.Equal(t, "cosine", cfg.Store.Metric)
		assert.Equal(t, "http://embed:11434", cfg.AI.EmbeddingHost)
		assert.Equal(t, "text-embedding-3-small", cfg.AI.EmbeddingModel)
		assert.Equal(t, 1536, cfg.AI.EmbeddingDims)
		assert.Equal(t, 500, cfg.Ingest.Limit)
		assert.Equal(t, 25, cfg.Ingest.BatchSize)
		assert.Equal(t, 4, cfg.Ingest.Workers)
		assert.Equal(t, "secret-token", cfg.Telegram.Token)
		assert.Equal(t, "12345", cfg.Telegram.Container)
		assert.Equal(t, 200, cfg.Telegram.BufferSize)
		assert.Equal(t, 30*time.Second, cfg.Telegram.FlushInterval())
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
store:
  path: staging.db
`), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "staging.db", cfg.Store.Path)
		assert.Equal(t, "l2", cfg.Store.Metric)
		assert.Equal(t, 100, cfg.Ingest.Limit)
		assert.Equal(t, "nomic-embed-text", cfg.AI.EmbeddingModel)
		assert.Equal(t, time.Minute, cfg.Telegram.FlushInterval())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: [not a map"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
