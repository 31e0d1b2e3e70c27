package domain

// ComparisonResult is the verdict of comparing OCR text against an expectation
type ComparisonResult struct {
	Matches       bool     `json:"matches"`
	Confidence    float64  `json:"confidence"` // Fraction of expected items found, 0-1
	Discrepancies []string `json:"discrepancies"`
	MatchedText   []string `json:"matched_text"`
	MissingText   []string `json:"missing_text"`
}

// VacuousMatch is the result for an expectation with nothing to check
func VacuousMatch() ComparisonResult {
	return ComparisonResult{
		Matches:       true,
		Confidence:    1,
		Discrepancies: []string{},
		MatchedText:   []string{},
		MissingText:   []string{},
	}
}

// RankedMatch is a candidate whose ingredients were found in the OCR text
type RankedMatch[P any] struct {
	Product            P        `json:"product"`
	MatchScore         float64  `json:"match_score"`
	MatchedIngredients []string `json:"matched_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
}
