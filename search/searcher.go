package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/storage"
)

// Result is one ranked retrieval hit.
type Result struct {
	// Excerpt is the record's text, truncated for presentation.
	Excerpt string

	// Timestamp is the record's original message time.
	Timestamp time.Time

	// Distance is the raw distance between the query vector and the
	// record's vector under the store's metric. Smaller is closer.
	Distance float32
}

// Searcher provides semantic retrieval over stored records.
type Searcher struct {
	repository storage.RecordRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.RecordRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   provider.Embedder(),
		logger:     slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search returns the k stored records closest to the query, ranked by
// ascending distance. An empty corpus yields an empty slice and no error.
// Ranking always uses the full stored text; excerpts are cut afterwards.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]Result, error) {
	return s.SearchWithMonitor(ctx, query, k, nil)
}

// SearchWithMonitor is Search with observation hooks for each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, k int, monitor Monitor) ([]Result, error) {
	if monitor == nil {
		monitor = noopMonitor{}
	}
	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrQueryEmbedding, err)
	}
	monitor.AfterQueryEmbedding(vector)

	matches, err := s.repository.NearestRecords(ctx, vector, k)
	if err != nil {
		s.logger.Error("error querying for nearest records", "err", err)
		return nil, err
	}
	monitor.AfterRanking(matches)

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Excerpt:   truncateExcerpt(match.Record.Text, excerptRuneLimit),
			Timestamp: match.Record.Timestamp,
			Distance:  match.Distance,
		}
	}

	s.logger.Debug("search finished", "hits", len(results), "k", k)
	monitor.Finish(results)
	return results, nil
}
