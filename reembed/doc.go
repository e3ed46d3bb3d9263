// Package reembed re-embeds existing records with a new or updated
// embedding model.
//
// This package supports batch processing of stored records, progress
// tracking, and retry logic with exponential backoff. Retrying lives only
// here: the ingestion pipeline fails fast and relies on re-ingestion
// instead.
package reembed
