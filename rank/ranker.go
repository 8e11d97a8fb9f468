package rank

import (
	"math"
	"slices"

	"github.com/minbar-ai/minbar/core"
)

const (
	// DefaultTopK is the number of candidates kept per corpus kind.
	DefaultTopK = 3

	// DefaultThreshold is the minimum cosine similarity for a candidate to
	// count as a match.
	DefaultThreshold = 0.3
)

// Result pairs a corpus item with its similarity score to the query vector.
type Result struct {
	Item  *core.CorpusItem
	Score float32
}

// Similarity computes the cosine similarity of two vectors, in [-1, 1].
// It is exactly 0 when either vector is absent or has zero norm, which
// guards degenerate embeddings.
func Similarity(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Rank scores every candidate against the query vector and returns the best
// matches, ordered by similarity descending. Candidates are truncated to
// topK and anything scoring below threshold is dropped.
//
// The sort is stable: candidates with equal scores keep their input order,
// so the corpus's canonical ordering is the tie-break. An absent query
// vector yields an empty result, which callers treat as "no local matches".
func Rank(queryVector []float32, candidates []*core.CorpusItem, topK int, threshold float32) []Result {
	if len(queryVector) == 0 || topK <= 0 || len(candidates) == 0 {
		return nil
	}

	scored := make([]Result, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, Result{
			Item:  candidate,
			Score: Similarity(queryVector, candidate.Vector),
		})
	}

	slices.SortStableFunc(scored, func(a, b Result) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	kept := scored[:0]
	for _, result := range scored {
		if result.Score >= threshold {
			kept = append(kept, result)
		}
	}

	return kept
}
