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


package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sothis-labs/recollect/ai"
	"github.com/sothis-labs/recollect/core"
	"github.com/sothis-labs/recollect/storage"
)

// KindSummary is the analysis kind produced by Summarize.
const KindSummary = "summary"

const defaultRecentLimit = 50

// Analyzer runs LLM analyses over stored records and persists the results.
type Analyzer struct {
	records   storage.RecordRepository
	analyses  storage.AnalysisRepository
	completer ai.Completer
	model     string
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithModelName records which model produced the analyses. Stored alongside
// each result so old analyses stay attributable after a model change.
func WithModelName(model string) Option {
	return func(a *Analyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer reading records from records, persisting
// results to analyses, and completing through provider.
func NewAnalyzer(
	records storage.RecordRepository,
	analyses storage.AnalysisRepository,
	provider ai.Provider,
	opts ...Option,
) (*Analyzer, error) {
	if records == nil {
		return nil, ErrRecordRepositoryRequired
	}
	if analyses == nil {
		return nil, ErrAnalysisRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	a := &Analyzer{
		records:   records,
		analyses:  analyses,
		completer: provider.Completer(),
		model:     "unknown",
		logger:    slog.Default().With("component", "analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Summarize pulls up to limit recent records from containerID ("" for all
// containers), asks the model for an analysis, persists it, and returns the
// stored Analysis. ErrNoRecords is returned when nothing is stored yet.
func (a *Analyzer) Summarize(ctx context.Context, containerID string, limit int) (*core.Analysis, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	records, err := a.records.GetRecentRecords(ctx, containerID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	prompt := buildSummaryPrompt(records)
	a.logger.Debug("requesting analysis",
		"records", len(records), "container", containerID)

	result, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating analysis: %w", err)
	}

	analysis := &core.Analysis{
		Kind:   KindSummary,
		Prompt: prompt,
		Result: result,
		Model:  a.model,
	}
	stored, err := a.analyses.AddAnalysis(ctx, analysis)
	if err != nil {
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	a.logger.Info("analysis stored", "id", stored.Id, "kind", stored.Kind)
	return stored, nil
}

// Recent returns the most recent stored analyses, optionally filtered by
// kind ("" for all).
func (a *Analyzer) Recent(ctx context.Context, kind string, limit int) ([]*core.Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	return a.analyses.GetRecentAnalyses(ctx, kind, limit)
}

// buildSummaryPrompt renders recent records oldest first, one bullet per
// message, under a fixed instruction block.
func buildSummaryPrompt(records []*core.Record) string {
	var b strings.Builder
	b.WriteString("Analyze the following messages and provide insights, patterns, and suggestions:\n\nMessages:\n")

	// GetRecentRecords returns newest first; present oldest first so the
	// model reads the conversation in order.
	for i := len(records) - 1; i >= 0; i-- {
		b.WriteString("- ")
		b.WriteString(records[i].Text)
		b.WriteString("\n")
	}

	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. Main topics and themes\n")
	b.WriteString("2. Important action items or reminders\n")
	b.WriteString("3. Patterns or trends\n")
	b.WriteString("4. Suggestions for organization or follow-up\n")
	return b.String()
}
