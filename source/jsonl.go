package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sothis-labs/recollect/core"
)

// jsonlLine is the wire format of one exported chat message.
type jsonlLine struct {
	ExternalID  string `json:"external_id"`
	ContainerID string `json:"container_id"`
	AuthorID    string `json:"author_id"`
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"` // RFC 3339
}

// JSONL is a Source that reads records from a JSON Lines chat export,
// one object per line:
//
//	{"external_id":"42","container_id":"team","author_id":"u1","text":"hi","timestamp":"2025-01-02T15:04:05Z"}
//
// Blank lines are skipped. A malformed line is a fetch error; exports are
// expected to be machine-generated and wholly valid.
type JSONL struct {
	path   string
	logger *slog.Logger

	offset int // lines consumed by previous fetches
}

// NewJSONL creates a JSONL source reading from the file at path.
func NewJSONL(path string) *JSONL {
	return &JSONL{
		path:   path,
		logger: slog.Default().With("component", "jsonl-source", "path", path),
	}
}

// FetchRecords reads up to limit records from where the previous call left
// off, so repeated calls page through the file. When containerID is set,
// lines from other containers are skipped without counting against limit.
func (j *JSONL) FetchRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	records := make([]*core.Record, 0, limit)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNo++
		if lineNo <= j.offset {
			continue
		}
		if len(records) >= limit {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			j.offset = lineNo
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		j.offset = lineNo

		if containerID != "" && rec.ContainerID != containerID {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	j.logger.Debug("fetched records from export", "count", len(records))
	return records, nil
}

func parseLine(line []byte) (*core.Record, error) {
	var l jsonlLine
	if err := json.Unmarshal(line, &l); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, l.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", l.Timestamp, err)
	}

	return &core.Record{
		ExternalID:  l.ExternalID,
		ContainerID: l.ContainerID,
		AuthorID:    l.AuthorID,
		Text:        l.Text,
		Timestamp:   ts,
	}, nil
}
