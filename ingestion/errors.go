package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a record repository is not provided.
	ErrRepositoryRequired = errors.New("record repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrSourceRequired is returned when Ingest is called without a source.
	ErrSourceRequired = errors.New("source required")

	// ErrFetchFailed wraps a source failure. No records are processed when
	// the fetch itself fails.
	ErrFetchFailed = errors.New("fetching records from source failed")
)
