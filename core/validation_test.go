package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	return &Record{
		ExternalID:  "tg:100",
		ContainerID: "saved",
		Text:        "hello world",
		Timestamp:   time.Now().UTC(),
	}
}

func TestValidateRecord(t *testing.T) {
	require.NoError(t, ValidateRecord(validRecord()))
}

func TestValidateRecord_Nil(t *testing.T) {
	err := ValidateRecord(nil)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestValidateRecord_EmptyExternalID(t *testing.T) {
	record := validRecord()
	record.ExternalID = ""
	err := ValidateRecord(record)
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, ErrEmptyExternalID)
}

func TestValidateRecord_EmptyText(t *testing.T) {
	record := validRecord()
	record.Text = ""
	err := ValidateRecord(record)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestValidateRecord_ZeroTimestamp(t *testing.T) {
	record := validRecord()
	record.Timestamp = time.Time{}
	err := ValidateRecord(record)
	assert.ErrorIs(t, err, ErrZeroTimestamp)
}

func TestValidateRecord_VectorOptional(t *testing.T) {
	record := validRecord()
	record.Vector = nil
	assert.NoError(t, ValidateRecord(record))
}

func TestValidateAnalysis(t *testing.T) {
	analysis := &Analysis{Kind: "summary", Result: "ten messages about travel", Model: "llama3.1:8b"}
	require.NoError(t, ValidateAnalysis(analysis))

	analysis.Kind = ""
	assert.ErrorIs(t, ValidateAnalysis(analysis), ErrEmptyAnalysisKind)

	analysis.Kind = "summary"
	analysis.Result = ""
	assert.ErrorIs(t, ValidateAnalysis(analysis), ErrEmptyAnalysisResult)
}
