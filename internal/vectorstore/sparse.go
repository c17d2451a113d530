package vectorstore

import (
	"hash/fnv"
	"sort"
	"strings"
	"unicode"
)

// SparseVector is a query-side sparse representation: token-hash indices with
// term-frequency weights, sorted by index. It follows the convention the
// indexing pipeline uses for the collection's "sparse" named vectors
// (lowercase tokens hashed with FNV-1a).
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// EncodeSparse builds the sparse query vector for a text. Tokens are lowercase
// letter/digit runs; each unique token contributes its hash as index and its
// term frequency as weight.
func EncodeSparse(text string) SparseVector {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return SparseVector{}
	}

	counts := make(map[uint32]float32, len(tokens))
	for _, token := range tokens {
		counts[hashToken(token)]++
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = counts[idx]
	}

	return SparseVector{Indices: indices, Values: values}
}

// tokenize splits text into lowercase letter/digit runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hashToken maps a token to a stable sparse index.
func hashToken(token string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return h.Sum32()
}
