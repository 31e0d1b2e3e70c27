package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrScanNotFound is returned when a recorded scan does not exist
	ErrScanNotFound = errors.New("scan not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogFailure is returned when the product catalog cannot be reached
	ErrCatalogFailure = errors.New("product catalog request failed")

	// ErrHistoryFailure is returned when the scan history store fails
	ErrHistoryFailure = errors.New("scan history store failed")
)
