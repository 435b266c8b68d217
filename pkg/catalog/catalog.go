// Package catalog exposes the product catalog the engine consumes.
// The engine only reads from a Provider; where product data actually
// comes from is someone else's problem.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"precivox-base/pkg/models"
)

// ErrNotFound is returned when no product matches the requested ID.
var ErrNotFound = errors.New("catalog: product not found")

// Provider serves read-only product data.
type Provider interface {
	ProductByID(ctx context.Context, id string) (models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
}

// FileProvider serves a static JSON catalog from memory. The file
// holds a JSON array of products in the standard wire shape.
type FileProvider struct {
	mu       sync.RWMutex
	products []models.Product
	byID     map[string]int
}

// NewFileProvider loads the catalog file eagerly.
func NewFileProvider(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	return NewStaticProvider(products), nil
}

// NewStaticProvider wraps an in-memory product slice; handy for tests.
func NewStaticProvider(products []models.Product) *FileProvider {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &FileProvider{products: products, byID: byID}
}

func (f *FileProvider) ProductByID(_ context.Context, id string) (models.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	idx, ok := f.byID[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return f.products[idx].Clone(), nil
}

// Search matches the query case-insensitively against product name,
// brand and category. An empty query returns everything.
func (f *FileProvider) Search(_ context.Context, query string) ([]models.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Product{}
	for _, p := range f.products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (f *FileProvider) All(ctx context.Context) ([]models.Product, error) {
	return f.Search(ctx, "")
}
