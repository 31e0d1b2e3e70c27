package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored JSON-encoded; Get returns the encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductCatalog is the read-only view of the external product catalog
type ProductCatalog interface {
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	ListWithIngredients(ctx context.Context) ([]Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
}

// ScanRepository persists scan results
type ScanRepository interface {
	Save(ctx context.Context, scan *ScanResult) error
	Get(ctx context.Context, id string) (*ScanResult, error)
	List(ctx context.Context, limit int) ([]ScanResult, error)
}
