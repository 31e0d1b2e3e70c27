package usecase

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/labelcheck/backend/internal/domain"
)

// Match thresholds. Per-token similarity must be strictly greater than the
// word threshold; overall confidence must reach the match threshold.
const (
	verbageWordThreshold      = 0.8
	verbageMatchThreshold     = 0.8
	ingredientWordThreshold   = 0.7
	ingredientMatchThreshold  = 0.7
	rankingInclusionThreshold = 0.7
)

// CompareVerbage checks that every expected word of three or more
// characters appears, approximately, somewhere in the OCR text.
func CompareVerbage(ocrText, expectedVerbage string) domain.ComparisonResult {
	ocrTokens := Tokenize(ocrText)
	expectedTokens := Tokenize(expectedVerbage)

	result := domain.VacuousMatch()
	for _, expected := range expectedTokens {
		if !isScoredToken(expected) {
			continue
		}

		if containsSimilar(ocrTokens, expected, verbageWordThreshold) {
			result.MatchedText = append(result.MatchedText, expected)
		} else {
			result.MissingText = append(result.MissingText, expected)
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf(`Missing expected word: "%s"`, expected))
		}
	}

	result.Confidence = confidence(len(result.MatchedText), len(result.MissingText))
	result.Matches = result.Confidence >= verbageMatchThreshold
	return result
}

// CompareIngredients checks each expected ingredient against the OCR words.
// A nil or empty ingredient list is a vacuous match.
func CompareIngredients(ocrText string, expected []domain.Ingredient) domain.ComparisonResult {
	result := domain.VacuousMatch()
	if len(expected) == 0 {
		return result
	}

	ocrTokens := Tokenize(ocrText)
	for _, ingredient := range expected {
		name := ingredient.DisplayName()
		normalized := Normalize(name)
		if !isScoredToken(normalized) {
			continue
		}

		if containsSimilar(ocrTokens, normalized, ingredientWordThreshold) {
			result.MatchedText = append(result.MatchedText, name)
		} else {
			result.MissingText = append(result.MissingText, name)
			result.Discrepancies = append(result.Discrepancies,
				fmt.Sprintf(`Missing expected ingredient: "%s"`, name))
		}
	}

	result.Confidence = confidence(len(result.MatchedText), len(result.MissingText))
	result.Matches = result.Confidence >= ingredientMatchThreshold
	return result
}

// FindMatchingProductsByIngredients ranks the candidates whose expected
// ingredients are found in the OCR text, best first. Candidates without an
// ingredient expectation are skipped; ties keep input order.
func FindMatchingProductsByIngredients[P domain.HasOptionalIngredients](ocrText string, candidates []P) []domain.RankedMatch[P] {
	matches := make([]domain.RankedMatch[P], 0, len(candidates))

	for _, candidate := range candidates {
		ingredients, ok := candidate.ExpectedIngredientList()
		if !ok {
			continue
		}

		comparison := CompareIngredients(ocrText, ingredients)
		if comparison.Confidence < rankingInclusionThreshold {
			continue
		}

		matches = append(matches, domain.RankedMatch[P]{
			Product:            candidate,
			MatchScore:         comparison.Confidence,
			MatchedIngredients: comparison.MatchedText,
			MissingIngredients: comparison.MissingText,
		})
	}

	slices.SortStableFunc(matches, func(a, b domain.RankedMatch[P]) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})

	return matches
}

// containsSimilar reports whether any token scores above threshold against target
func containsSimilar(tokens []string, target string, threshold float64) bool {
	for _, token := range tokens {
		if Similarity(token, target) > threshold {
			return true
		}
	}
	return false
}

// confidence is the matched fraction, or 1 when nothing was considered
func confidence(matched, missing int) float64 {
	total := matched + missing
	if total == 0 {
		return 1.0
	}
	return float64(matched) / float64(total)
}
