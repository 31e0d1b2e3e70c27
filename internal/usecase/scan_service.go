package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/labelcheck/backend/internal/domain"
)

// Scan defaults
const (
	defaultCacheTTL         = 24 * time.Hour
	defaultMinOCRConfidence = 0.8
	defaultMaxAlternatives  = 3
	ingredientsCacheKey     = "catalog:ingredients"
	productsCacheKey        = "catalog:products"
)

// ScanServiceConfig holds configuration for the scan service
type ScanServiceConfig struct {
	CacheTTL         time.Duration
	MinOCRConfidence float64
	MaxAlternatives  int
	Logger           *slog.Logger
}

// ScanService merges comparison verdicts with catalog lookups and OCR quality
type ScanService struct {
	catalog          domain.ProductCatalog
	cache            domain.CacheRepository
	history          domain.ScanRepository
	cacheTTL         time.Duration
	minOCRConfidence float64
	maxAlternatives  int
	logger           *slog.Logger
	now              func() time.Time
	newID            func() string
}

// NewScanService creates a scan service. cache and history may be nil.
func NewScanService(
	catalog domain.ProductCatalog,
	cache domain.CacheRepository,
	history domain.ScanRepository,
	config ScanServiceConfig,
) *ScanService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	minOCR := config.MinOCRConfidence
	if minOCR <= 0 {
		minOCR = defaultMinOCRConfidence
	}

	maxAlternatives := config.MaxAlternatives
	if maxAlternatives <= 0 {
		maxAlternatives = defaultMaxAlternatives
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &ScanService{
		catalog:          catalog,
		cache:            cache,
		history:          history,
		cacheTTL:         cacheTTL,
		minOCRConfidence: minOCR,
		maxAlternatives:  maxAlternatives,
		logger:           logger.With("component", "scan"),
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// VerifyVerbage checks label text against the expected verbage of the
// product identified by the request barcode.
func (s *ScanService) VerifyVerbage(ctx context.Context, request *domain.ScanRequest) (*domain.ScanResult, error) {
	if request == nil || strings.TrimSpace(request.OCRText) == "" {
		return nil, domain.ErrInvalidRequest
	}

	result := s.newResult(domain.ScanKindVerbage, request)
	barcode := strings.TrimSpace(request.Barcode)

	var product *domain.Product
	if barcode != "" {
		found, err := s.findByBarcode(ctx, barcode)
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		product = found
	}

	switch {
	case product != nil && product.ExpectedVerbage != "":
		result.Product = product.Summary()
		comparison := CompareVerbage(request.OCRText, product.ExpectedVerbage)
		result.VerbageComparison = &comparison
		s.logger.Debug("verbage compared",
			"barcode", barcode,
			"confidence", comparison.Confidence,
			"matches", comparison.Matches)
		if !comparison.Matches {
			result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
				Type:    domain.NoteVerbage,
				Message: "Text does not match expected verbage",
				Details: comparison.Discrepancies,
			})
		}
	case product != nil:
		result.Product = product.Summary()
		result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
			Type:    domain.NoteProduct,
			Message: "Product has no expected verbage on record",
		})
	case barcode != "":
		result.DiscrepancyNotes = append(result.DiscrepancyNotes, productNotFoundNote())
	default:
		result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
			Type:    domain.NoteBarcode,
			Message: "No barcode detected",
		})
	}

	s.checkOCRQuality(result, request.OCRConfidence)
	if err := s.record(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyIngredients identifies the product whose ingredients best match the
// label text and reports how well the label agrees with it.
func (s *ScanService) VerifyIngredients(ctx context.Context, request *domain.ScanRequest) (*domain.ScanResult, error) {
	if request == nil || strings.TrimSpace(request.OCRText) == "" {
		return nil, domain.ErrInvalidRequest
	}

	matches, err := s.SearchByIngredients(ctx, request.OCRText)
	if err != nil {
		return nil, err
	}

	result := s.newResult(domain.ScanKindIngredients, request)
	result.AlternativeMatches = []domain.RankedMatch[domain.ProductSummary]{}

	if len(matches) > 0 {
		best := matches[0].Product
		result.Product = best.Summary()

		comparison := CompareIngredients(request.OCRText, best.ExpectedIngredients)
		result.IngredientsComparison = &comparison
		if !comparison.Matches {
			result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
				Type:    domain.NoteIngredients,
				Message: "Ingredients do not match expected ingredients",
				Details: comparison.Discrepancies,
			})
		}

		end := min(len(matches), 1+s.maxAlternatives)
		for _, alt := range matches[1:end] {
			result.AlternativeMatches = append(result.AlternativeMatches, summarize(alt))
		}
	} else {
		result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
			Type:    domain.NoteProduct,
			Message: "No products match the scanned ingredients",
		})
	}

	s.checkOCRQuality(result, request.OCRConfidence)
	if err := s.record(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// LookupBarcode records a scan for a barcode decoded by the client
func (s *ScanService) LookupBarcode(ctx context.Context, barcode string) (*domain.ScanResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.findByBarcode(ctx, barcode)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}

	result := s.newResult(domain.ScanKindBarcode, &domain.ScanRequest{Barcode: barcode})
	result.OCRConfidence = nil
	if product != nil {
		result.Product = product.Summary()
	} else {
		result.DiscrepancyNotes = append(result.DiscrepancyNotes, productNotFoundNote())
	}

	if err := s.record(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchByIngredients ranks the catalog products against the OCR text
func (s *ScanService) SearchByIngredients(ctx context.Context, ocrText string) ([]domain.RankedMatch[domain.Product], error) {
	if strings.TrimSpace(ocrText) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.listWithIngredients(ctx)
	if err != nil {
		return nil, err
	}

	matches := FindMatchingProductsByIngredients(ocrText, products)
	s.logger.Debug("ingredient ranking",
		"candidates", len(products),
		"matches", len(matches))
	return matches, nil
}

// ListProducts returns the whole catalog, cache first
func (s *ScanService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if s.getFromCache(ctx, productsCacheKey, &cached) {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, catalogError(err)
	}

	s.setInCache(ctx, productsCacheKey, products)
	return products, nil
}

// GetScan returns a previously recorded scan
func (s *ScanService) GetScan(ctx context.Context, id string) (*domain.ScanResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.history == nil {
		return nil, domain.ErrScanNotFound
	}
	return s.history.Get(ctx, id)
}

// ListScans returns the most recent scans, newest first
func (s *ScanService) ListScans(ctx context.Context, limit int) ([]domain.ScanResult, error) {
	if s.history == nil {
		return []domain.ScanResult{}, nil
	}
	scans, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryFailure, err)
	}
	return scans, nil
}

func (s *ScanService) newResult(kind string, request *domain.ScanRequest) *domain.ScanResult {
	ocrConfidence := request.OCRConfidence
	return &domain.ScanResult{
		ID:               s.newID(),
		Kind:             kind,
		OCRText:          request.OCRText,
		OCRConfidence:    &ocrConfidence,
		Barcode:          strings.TrimSpace(request.Barcode),
		DiscrepancyNotes: []domain.DiscrepancyNote{},
		Timestamp:        s.now().UTC(),
	}
}

// checkOCRQuality flags OCR output whose confidence is below the threshold
func (s *ScanService) checkOCRQuality(result *domain.ScanResult, ocrConfidence float64) {
	if ocrConfidence >= s.minOCRConfidence {
		return
	}
	value := ocrConfidence
	result.DiscrepancyNotes = append(result.DiscrepancyNotes, domain.DiscrepancyNote{
		Type:       domain.NoteOCRQuality,
		Message:    "Low OCR confidence",
		Confidence: &value,
	})
}

// record finalizes the status and stores the scan
func (s *ScanService) record(ctx context.Context, result *domain.ScanResult) error {
	if len(result.DiscrepancyNotes) == 0 {
		result.Status = domain.StatusMatched
	} else {
		result.Status = domain.StatusDiscrepancy
	}

	s.logger.Info("scan processed",
		"scan_id", result.ID,
		"kind", result.Kind,
		"status", result.Status,
		"notes", len(result.DiscrepancyNotes))

	if s.history == nil {
		return nil
	}
	if err := s.history.Save(ctx, result); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrHistoryFailure, err)
	}
	return nil
}

// findByBarcode looks a product up, cache first
func (s *ScanService) findByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	key := "catalog:barcode:" + barcode

	var cached domain.Product
	if s.getFromCache(ctx, key, &cached) {
		return &cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	product, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Debug("product not found", "barcode", barcode)
			return nil, err
		}
		return nil, catalogError(err)
	}

	s.setInCache(ctx, key, product)
	return product, nil
}

// listWithIngredients returns all catalog products carrying ingredients, cache first
func (s *ScanService) listWithIngredients(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if s.getFromCache(ctx, ingredientsCacheKey, &cached) {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := s.catalog.ListWithIngredients(ctx)
	if err != nil {
		return nil, catalogError(err)
	}

	s.setInCache(ctx, ingredientsCacheKey, products)
	return products, nil
}

// getFromCache decodes a cached value into dst; false on miss or decode failure
func (s *ScanService) getFromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// setInCache stores a value; failures are logged, not returned
func (s *ScanService) setInCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// catalogError tags an unclassified catalog error as a catalog failure
func catalogError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCatalogFailure),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)
}

func productNotFoundNote() domain.DiscrepancyNote {
	return domain.DiscrepancyNote{
		Type:    domain.NoteProduct,
		Message: "Product not found in database for barcode",
	}
}

// summarize reduces a ranked product to the fields sent back to clients
func summarize(match domain.RankedMatch[domain.Product]) domain.RankedMatch[domain.ProductSummary] {
	return domain.RankedMatch[domain.ProductSummary]{
		Product:            *match.Product.Summary(),
		MatchScore:         match.MatchScore,
		MatchedIngredients: match.MatchedIngredients,
		MissingIngredients: match.MissingIngredients,
	}
}
