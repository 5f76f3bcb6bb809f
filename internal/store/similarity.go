package store

import (
	"math"
	"sort"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

// ScoredEntry pairs a vector entry with its similarity to a query.
type ScoredEntry struct {
	Entry domain.VectorEntry
	Score float32
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Degenerate (all-zero) vectors score 0 via the epsilon
// denominator floor.
func CosineSimilarity(a, b []float32) float32 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom == 0 {
		denom = 1e-8
	}
	return float32(dot / denom)
}

// TopKSimilar scores every entry against the query vector and returns
// the k best by descending similarity, entry order on ties.
func TopKSimilar(queryVec []float32, entries []domain.VectorEntry, k int) []ScoredEntry {
	scored := make([]ScoredEntry, 0, len(entries))
	for _, e := range entries {
		scored = append(scored, ScoredEntry{Entry: e, Score: CosineSimilarity(queryVec, e.Vector)})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
