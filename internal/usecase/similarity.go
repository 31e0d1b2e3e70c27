package usecase

// Similarity scores two tokens in [0,1] from their Levenshtein distance,
// relative to the longer token. Two empty strings are identical.
// Comparison is case-sensitive; callers pass normalized tokens.
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshteinDistance(ra, rb)
	return float64(maxLen-distance) / float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two rune slices.
// Insertion, deletion and substitution each cost 1. The result never
// exceeds max(len(a), len(b)).
func levenshteinDistance(a, b []rune) int {
	// Keep the rows sized to the shorter input
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	n := len(b)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
