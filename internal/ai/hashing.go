package ai

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const DefaultDimensions = 256

type hashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns a local embedder that hashes words and character
// trigrams into a fixed number of buckets. Titles sharing words or word pieces
// get similar vectors. No network, fully deterministic.
func NewHashingEmbedder(dims int) Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &hashingEmbedder{dims: dims}
}

func (h *hashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *hashingEmbedder) vector(text string) []float32 {
	v := make([]float32, h.dims)
	for _, word := range tokenize(text) {
		h.add(v, "w:"+word, 1)
		padded := []rune(" " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(v, "t:"+string(padded[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v
}

func (h *hashingEmbedder) add(v []float32, feature string, weight float32) {
	hasher := fnv.New32a()
	hasher.Write([]byte(feature))
	sum := hasher.Sum32()
	v[sum%uint32(h.dims)] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
