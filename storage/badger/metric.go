package badger

import "math"

// Metric selects the distance function used for nearest-neighbor ranking.
// It is fixed when the backend is opened; a corpus must never mix metrics.
type Metric int

const (
	// MetricL2 ranks by Euclidean distance. This is the default.
	MetricL2 Metric = iota

	// MetricCosine ranks by cosine distance (1 - cosine similarity).
	MetricCosine
)

// String returns the metric name as used in configuration.
func (m Metric) String() string {
	switch m {
	case MetricCosine:
		return "cosine"
	default:
		return "l2"
	}
}

// ParseMetric maps a configuration string to a Metric. Unknown values fall
// back to MetricL2.
func ParseMetric(name string) Metric {
	if name == "cosine" {
		return MetricCosine
	}
	return MetricL2
}

// Distance computes the distance between two equal-length vectors under
// the metric. The backend filters out candidates whose dimensionality does
// not match the query before ranking, so mismatched inputs never reach
// this point in normal operation.
func (m Metric) Distance(a, b []float32) float32 {
	switch m {
	case MetricCosine:
		return cosineDistance(a, b)
	default:
		return l2Distance(a, b)
	}
}

func l2Distance(a, b []float32) float32 {
	var sum float64
	for i := 0; i < minLen(a, b); i++ {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := 0; i < minLen(a, b); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

func minLen(a, b []float32) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}
