package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is the store-level key for domain entities. Record IDs are derived
// deterministically from the source's external identifier, analysis IDs come
// from a database sequence.
type ID uint64

// IDFromContent derives a deterministic ID from a string using BLAKE2b
// hashing. Record IDs are derived from the source's external identifier, so
// re-fetching the same message always maps to the same store key; that is
// what makes re-ingestion idempotent.
func IDFromContent(content string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(content))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Record represents a single ingested message. The embedding vector is
// attached during batch processing, before the record is first persisted.
type Record struct {
	ExternalID  string    // Source-assigned identifier, unique per source
	ContainerID string    // Grouping key, e.g. a conversation or channel
	AuthorID    string    // Optional sender identifier
	Text        string    // Message text; may be empty for non-text messages
	Timestamp   time.Time // When the message was originally sent
	Vector      []float32 // Embedding vector for semantic search
	InsertedAt  time.Time // When the record was inserted into the store
	UpdatedAt   time.Time // When the record was last updated
}

// HasText reports whether the record carries embeddable text.
func (r *Record) HasText() bool {
	return r != nil && r.Text != ""
}

// ScoredRecord is a nearest-neighbor match: a stored record together with its
// distance from the query vector under the store's metric. Smaller is closer.
type ScoredRecord struct {
	Record   *Record
	Distance float32
}

// Stats accumulates the outcome of one ingestion run. Batch-scoped partials
// are merged additively into the run total.
type Stats struct {
	TotalFetched  int
	NewStored     int
	AlreadyExists int
	SkippedNoText int
	Errors        int
}

// Add merges another Stats value into s. TotalFetched is summed as well, so
// batch partials must leave it zero and let the orchestrator set it once.
func (s *Stats) Add(other Stats) {
	s.TotalFetched += other.TotalFetched
	s.NewStored += other.NewStored
	s.AlreadyExists += other.AlreadyExists
	s.SkippedNoText += other.SkippedNoText
	s.Errors += other.Errors
}

// Balanced reports whether every fetched record is accounted for:
// TotalFetched == NewStored + AlreadyExists + SkippedNoText + Errors.
func (s *Stats) Balanced() bool {
	return s.TotalFetched == s.NewStored+s.AlreadyExists+s.SkippedNoText+s.Errors
}

// Analysis is a persisted LLM analysis over stored records.
type Analysis struct {
	Id        ID
	Kind      string // Analysis category, e.g. "summary"
	Prompt    string
	Result    string
	Model     string // Model identifier that produced the result
	CreatedAt time.Time
}
