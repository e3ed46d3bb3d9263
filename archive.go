// Copyright 2025 Sothis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package recollect

import (
	"log/slog"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/ai/openai"
	"github.com/sothis-labs/recollect/analysis"
	"github.com/sothis-labs/recollect/ingestion"
	"github.com/sothis-labs/recollect/search"
	"github.com/sothis-labs/recollect/storage"
	"github.com/sothis-labs/recollect/storage/badger"
)

// Archive wires the storage backend, repositories, and AI provider into one
// handle. It is the main entry point for embedding recollect in a program.
type Archive struct {
	backend      *badger.Backend
	recordRepo   storage.RecordRepository
	analysisRepo storage.AnalysisRepository
	provider     ai.Provider
	logger       *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	metric   badger.Metric
	inMemory bool
}

// WithAIConfig sets the AI services configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Intended for tests and custom backends.
func WithProvider(provider ai.Provider) ArchiveOption {
	return func(o *archiveOptions) {
		o.provider = provider
	}
}

// WithMetric sets the store's distance metric. Default is badger.MetricL2.
// The metric is fixed per store; changing it on an existing corpus requires
// reembedding.
func WithMetric(metric badger.Metric) ArchiveOption {
	return func(o *archiveOptions) {
		o.metric = metric
	}
}

// WithInMemory opens an in-memory store with no on-disk state.
func WithInMemory() ArchiveOption {
	return func(o *archiveOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) the archive at filePath.
func Open(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(),
		metric:   badger.MetricL2,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, options.metric)
	if err != nil {
		return nil, err
	}

	recordRepo, err := badger.NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	analysisRepo, err := badger.NewAnalysisRepository(backend)
	if err != nil {
		recordRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			analysisRepo.Close()
			recordRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Archive{
		backend:      backend,
		recordRepo:   recordRepo,
		analysisRepo: analysisRepo,
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

// Close releases the provider, repositories, and backend.
func (a *Archive) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.analysisRepo.Close(); err != nil {
		a.logger.Error("error closing analysis repository", "err", err)
		return err
	}
	if err := a.recordRepo.Close(); err != nil {
		a.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// RecordRepository exposes the record store.
func (a *Archive) RecordRepository() storage.RecordRepository {
	return a.recordRepo
}

// AnalysisRepository exposes the analysis store.
func (a *Archive) AnalysisRepository() storage.AnalysisRepository {
	return a.analysisRepo
}

// Provider exposes the AI provider.
func (a *Archive) Provider() ai.Provider {
	return a.provider
}

// NewIngestor creates an ingestor writing to this archive.
func (a *Archive) NewIngestor(opts ...ingestion.Option) (*ingestion.Ingestor, error) {
	return ingestion.NewIngestor(a.recordRepo, a.provider, opts...)
}

// NewSearcher creates a searcher reading from this archive.
func (a *Archive) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(a.recordRepo, a.provider, opts...)
}

// NewAnalyzer creates an analyzer over this archive.
func (a *Archive) NewAnalyzer(opts ...analysis.Option) (*analysis.Analyzer, error) {
	return analysis.NewAnalyzer(a.recordRepo, a.analysisRepo, a.provider, opts...)
}
