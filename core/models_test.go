package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("tg:12345")
	id2 := IDFromContent("tg:12345")
	assert.Equal(t, id1, id2)
}

func TestIDFromContent_DifferentInputs(t *testing.T) {
	ids := map[ID]string{}
	for _, ext := range []string{"tg:1", "tg:2", "tg:3", "slack:1", ""} {
		id := IDFromContent(ext)
		prev, dup := ids[id]
		require.False(t, dup, "collision between %q and %q", prev, ext)
		ids[id] = ext
	}
}

func TestRecordHasText(t *testing.T) {
	assert.False(t, (*Record)(nil).HasText())
	assert.False(t, (&Record{}).HasText())
	assert.True(t, (&Record{Text: "hello"}).HasText())
}

func TestStatsAdd(t *testing.T) {
	total := Stats{TotalFetched: 12}
	total.Add(Stats{NewStored: 4, SkippedNoText: 1})
	total.Add(Stats{NewStored: 3, AlreadyExists: 2})
	total.Add(Stats{Errors: 2})

	assert.Equal(t, 12, total.TotalFetched)
	assert.Equal(t, 7, total.NewStored)
	assert.Equal(t, 2, total.AlreadyExists)
	assert.Equal(t, 1, total.SkippedNoText)
	assert.Equal(t, 2, total.Errors)
	assert.True(t, total.Balanced())
}

func TestStatsBalanced(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		balanced bool
	}{
		{"zero value", Stats{}, true},
		{"all stored", Stats{TotalFetched: 5, NewStored: 5}, true},
		{"mixed outcomes", Stats{TotalFetched: 10, NewStored: 4, AlreadyExists: 3, SkippedNoText: 2, Errors: 1}, true},
		{"unaccounted record", Stats{TotalFetched: 3, NewStored: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.balanced, tt.stats.Balanced())
		})
	}
}
