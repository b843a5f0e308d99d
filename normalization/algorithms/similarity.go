// Package algorithms provides the string-distance metrics used by the match
// resolver.
package algorithms

// SimilarityMetrics provides string similarity metrics.
type SimilarityMetrics struct{}

// NewSimilarityMetrics creates a new metrics instance.
func NewSimilarityMetrics() *SimilarityMetrics {
	return &SimilarityMetrics{}
}

// LevenshteinDistance computes the classic Levenshtein distance with unit
// costs for insertion, deletion and substitution.
func (sm *SimilarityMetrics) LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Single-column formulation of the standard DP recurrence.
	column := make([]int, len1+1)
	for i := 1; i <= len1; i++ {
		column[i] = i
	}

	for x := 1; x <= len2; x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len1; y++ {
			oldDiag := column[y]
			cost := 0
			if r1[y-1] != r2[x-1] {
				cost = 1
			}
			column[y] = min3(column[y]+1, column[y-1]+1, lastDiag+cost)
			lastDiag = oldDiag
		}
	}

	return column[len1]
}

// LevenshteinSimilarity maps the distance into [0, 1]: identical non-empty
// strings score 1.0, an empty input scores 0.0.
func (sm *SimilarityMetrics) LevenshteinSimilarity(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}
	if s1 == s2 {
		return 1.0
	}

	distance := sm.LevenshteinDistance(s1, s2)
	maxLen := len([]rune(s1))
	if n := len([]rune(s2)); n > maxLen {
		maxLen = n
	}

	return float64(maxLen-distance) / float64(maxLen)
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
