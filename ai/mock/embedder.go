package mock

import (
	"context"
	"hash/fnv"
	"math"
)

const mockVectorDim = 384

// MockEmbedder is an in-memory ai.Embedder for tests. Unless a Func field
// is set, it derives a stable unit vector from each text, so equal texts
// embed identically across runs and processes.
type MockEmbedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

// NewMockEmbedder returns a mock with the deterministic default behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText embeds a single text with the injected func or the stable
// default.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return stableVector(text), nil
}

// EmbedTexts embeds each text independently, one vector per input.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = stableVector(text)
	}
	return vectors, nil
}

// CallCount reports how many times either embed method ran.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// stableVector maps a text to a unit vector: an FNV-64a digest of the text
// seeds a splitmix-style generator, one draw per dimension.
func stableVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vector := make([]float32, mockVectorDim)
	var sum float64
	for i := range vector {
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		// Top 53 bits spread over [-1, 1).
		vector[i] = float32(z>>11)/float32(1<<52) - 1
		sum += float64(vector[i]) * float64(vector[i])
	}

	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}
