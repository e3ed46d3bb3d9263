package search

import "github.com/sothis-labs/recollect/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps during a search.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterRanking(matches []*core.ScoredRecord)
	Finish(results []Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = noopMonitor{}

func (noopMonitor) Start(_ string)                      {}
func (noopMonitor) AfterQueryEmbedding(_ []float32)     {}
func (noopMonitor) AfterRanking(_ []*core.ScoredRecord) {}
func (noopMonitor) Finish(_ []Result)                   {}
