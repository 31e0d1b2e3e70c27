package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/labelcheck/backend/internal/domain"
)

// catalogFile is the on-disk layout of a catalog. JSON files use the same shape.
type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// FileCatalog is an immutable catalog loaded from a YAML or JSON file
type FileCatalog struct {
	products  []domain.Product
	byBarcode map[string]int
}

// LoadFile reads and validates a catalog file
func LoadFile(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes catalog content
func Parse(data []byte) (*FileCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(file.Products)
}

// New builds a catalog from products, assigning IDs to entries without one.
// Names are required; IDs and barcodes must be unique.
func New(products []domain.Product) (*FileCatalog, error) {
	c := &FileCatalog{
		products:  make([]domain.Product, 0, len(products)),
		byBarcode: make(map[string]int, len(products)),
	}
	byID := make(map[int64]int, len(products))

	var nextID int64 = 1
	for _, p := range products {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	for i, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %d: name is required", i+1)
		}
		if p.ID == 0 {
			p.ID = nextID
			nextID++
		}
		if prev, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("product %d: id %d already used by %q",
				i+1, p.ID, c.products[prev].Name)
		}
		byID[p.ID] = len(c.products)
		p.Barcode = strings.TrimSpace(p.Barcode)
		if p.Barcode != "" {
			if prev, dup := c.byBarcode[p.Barcode]; dup {
				return nil, fmt.Errorf("product %d: barcode %s already used by %q",
					i+1, p.Barcode, c.products[prev].Name)
			}
			c.byBarcode[p.Barcode] = len(c.products)
		}
		c.products = append(c.products, p)
	}

	return c, nil
}

// FindByBarcode returns a copy of the product registered under barcode
func (c *FileCatalog) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx, ok := c.byBarcode[strings.TrimSpace(barcode)]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	product := c.products[idx]
	return &product, nil
}

// ListWithIngredients returns the products that declare expected ingredients
func (c *FileCatalog) ListWithIngredients(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.HasIngredients() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListProducts returns every product in file order
func (c *FileCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.List(), nil
}

// List returns every product in file order
func (c *FileCatalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products
func (c *FileCatalog) Len() int {
	return len(c.products)
}
