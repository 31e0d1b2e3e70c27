package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/labelcheck/backend/internal/domain"
	"github.com/labelcheck/backend/internal/usecase"
)

// ScanUsecase is the scan orchestration the handlers depend on
type ScanUsecase interface {
	VerifyVerbage(ctx context.Context, request *domain.ScanRequest) (*domain.ScanResult, error)
	VerifyIngredients(ctx context.Context, request *domain.ScanRequest) (*domain.ScanResult, error)
	LookupBarcode(ctx context.Context, barcode string) (*domain.ScanResult, error)
	SearchByIngredients(ctx context.Context, ocrText string) ([]domain.RankedMatch[domain.Product], error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetScan(ctx context.Context, id string) (*domain.ScanResult, error)
	ListScans(ctx context.Context, limit int) ([]domain.ScanResult, error)
}

// statusClientClosedRequest is the nginx convention for a caller that went away
const statusClientClosedRequest = 499

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scans  ScanUsecase
	logger *slog.Logger
}

// NewHandler creates a new HTTP handler. scans may be nil, in which case
// the catalog backed endpoints answer 501.
func NewHandler(scans ScanUsecase, logger *slog.Logger) *Handler {
	return &Handler{scans: scans, logger: orDiscard(logger).With("component", "http")}
}

type compareVerbageRequest struct {
	OCRText         string `json:"ocr_text" binding:"required"`
	ExpectedVerbage string `json:"expected_verbage"`
}

type compareIngredientsRequest struct {
	OCRText             string                `json:"ocr_text" binding:"required"`
	ExpectedIngredients domain.IngredientList `json:"expected_ingredients"`
}

type ocrTextRequest struct {
	OCRText string `json:"ocr_text" binding:"required"`
}

type scanRequest struct {
	OCRText       string   `json:"ocr_text" binding:"required"`
	OCRConfidence *float64 `json:"ocr_confidence" binding:"required,gte=0,lte=1"`
	Barcode       string   `json:"barcode"`
}

type barcodeRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labelcheck-backend",
		"version": "1.0.0",
	})
}

// CompareVerbage compares OCR text with a caller supplied verbage string
func (h *Handler) CompareVerbage(c *gin.Context) {
	var req compareVerbageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "OCR text is required")
		return
	}
	c.JSON(http.StatusOK, usecase.CompareVerbage(req.OCRText, req.ExpectedVerbage))
}

// CompareIngredients compares OCR text with a caller supplied ingredient list
func (h *Handler) CompareIngredients(c *gin.Context) {
	var req compareIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "OCR text is required")
		return
	}
	c.JSON(http.StatusOK, usecase.CompareIngredients(req.OCRText, req.ExpectedIngredients))
}

// ListProducts returns the product catalog
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}

	products, err := h.scans.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

// SearchByIngredients ranks catalog products against OCR text
func (h *Handler) SearchByIngredients(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}

	var req ocrTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "OCR text is required")
		return
	}

	matches, err := h.scans.SearchByIngredients(c.Request.Context(), req.OCRText)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"matches": matches,
	})
}

// ScanVerbage verifies label text against the barcode's product
func (h *Handler) ScanVerbage(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}
	h.handleScan(c, h.scans.VerifyVerbage)
}

// ScanIngredients identifies a product by its ingredient list
func (h *Handler) ScanIngredients(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}
	h.handleScan(c, h.scans.VerifyIngredients)
}

// ScanBarcodeData records a barcode decoded on the client
func (h *Handler) ScanBarcodeData(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}

	var req barcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Barcode data is required")
		return
	}

	result, err := h.scans.LookupBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetScan returns a recorded scan by id
func (h *Handler) GetScan(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}

	result, err := h.scans.GetScan(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListScans returns recent scans; ?limit= caps the count
func (h *Handler) ListScans(c *gin.Context) {
	if !h.requireScans(c) {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	scans, err := h.scans.ListScans(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

type scanFunc func(ctx context.Context, request *domain.ScanRequest) (*domain.ScanResult, error)

func (h *Handler) handleScan(c *gin.Context, scan scanFunc) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "OCR text and an OCR confidence between 0 and 1 are required")
		return
	}

	result, err := scan(c.Request.Context(), &domain.ScanRequest{
		OCRText:       req.OCRText,
		OCRConfidence: *req.OCRConfidence,
		Barcode:       req.Barcode,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) requireScans(c *gin.Context) bool {
	if h.scans != nil {
		return true
	}
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "Product catalog not configured",
	})
	return false
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrScanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = statusClientClosedRequest
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"path", c.FullPath(),
			"status", status,
			"error", err)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
