package analysis

import "errors"

var (
	// ErrRecordRepositoryRequired is returned when a record repository is not provided.
	ErrRecordRepositoryRequired = errors.New("record repository required")

	// ErrAnalysisRepositoryRequired is returned when an analysis repository is not provided.
	ErrAnalysisRepositoryRequired = errors.New("analysis repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrNoRecords is returned when there is nothing to analyze.
	ErrNoRecords = errors.New("no records to analyze")
)
