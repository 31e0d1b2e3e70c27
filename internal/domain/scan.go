package domain

import "time"

// Scan kinds
const (
	ScanKindVerbage     = "verbage"
	ScanKindIngredients = "ingredients"
	ScanKindBarcode     = "barcode"
)

// Scan statuses
const (
	StatusMatched     = "matched"
	StatusDiscrepancy = "discrepancy"
)

// Discrepancy note types
const (
	NoteVerbage     = "verbage"
	NoteIngredients = "ingredients"
	NoteProduct     = "product"
	NoteBarcode     = "barcode"
	NoteOCRQuality  = "ocr_quality"
)

// ScanRequest carries the output of the external OCR and barcode collaborators
type ScanRequest struct {
	OCRText       string  `json:"ocr_text"`
	OCRConfidence float64 `json:"ocr_confidence"`
	Barcode       string  `json:"barcode,omitempty"`
}

// DiscrepancyNote is one reason a scan does not cleanly match its product
type DiscrepancyNote struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// ScanResult is the full report for a single label scan
type ScanResult struct {
	ID                    string                        `json:"scan_id"`
	Kind                  string                        `json:"kind"`
	Status                string                        `json:"status"`
	Product               *ProductSummary               `json:"product"`
	OCRText               string                        `json:"ocr_text,omitempty"`
	OCRConfidence         *float64                      `json:"ocr_confidence,omitempty"`
	Barcode               string                        `json:"barcode,omitempty"`
	VerbageComparison     *ComparisonResult             `json:"verbage_comparison,omitempty"`
	IngredientsComparison *ComparisonResult             `json:"ingredients_comparison,omitempty"`
	AlternativeMatches    []RankedMatch[ProductSummary] `json:"alternative_matches,omitempty"`
	DiscrepancyNotes      []DiscrepancyNote             `json:"discrepancy_notes"`
	Timestamp             time.Time                     `json:"timestamp"`
}
