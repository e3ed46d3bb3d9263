package storage

import (
	"testing"
	"time"

	"github.com/sothis-labs/recollect/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"external-id derived", core.IDFromContent("tg:991")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.Record
	}{
		{
			name: "minimal record",
			record: &core.Record{
				ExternalID: "tg:1",
				Text:       "Hello",
				Timestamp:  now,
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "record with vector",
			record: &core.Record{
				ExternalID:  "tg:2",
				ContainerID: "saved",
				AuthorID:    "u:77",
				Text:        "Test with embedding",
				Timestamp:   now,
				Vector:      []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
		{
			name: "record without text",
			record: &core.Record{
				ExternalID:  "tg:3",
				ContainerID: "channel:9",
				Timestamp:   now,
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestUnmarshalRecord_AbsentVectorIsNil(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	for name, vector := range map[string][]float32{
		"nil vector":   nil,
		"empty vector": {},
	} {
		t.Run(name, func(t *testing.T) {
			decoded, err := UnmarshalRecord(MarshalRecord(&core.Record{
				ExternalID: "tg:5",
				Timestamp:  now,
				Vector:     vector,
				InsertedAt: now,
				UpdatedAt:  now,
			}))
			require.NoError(t, err)
			assert.Nil(t, decoded.Vector)
		})
	}
}

func TestUnmarshalRecord_Truncated(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	data := MarshalRecord(&core.Record{
		ExternalID: "tg:4",
		Text:       "long enough to truncate",
		Timestamp:  now,
		InsertedAt: now,
		UpdatedAt:  now,
	})

	_, err := UnmarshalRecord(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalAnalysis(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	analysis := &core.Analysis{
		Id:        core.ID(7),
		Kind:      "summary",
		Prompt:    "Summarize the following messages.",
		Result:    "Mostly links about hiking trips.",
		Model:     "llama3.1:8b",
		CreatedAt: now,
	}

	data := MarshalAnalysis(analysis)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalAnalysis(data)
	require.NoError(t, err)
	assert.Equal(t, analysis, decoded)
}
