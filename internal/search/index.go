// Package search provides free-text product lookup over the catalog.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/upl-merch/assistant/internal/agent/model"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

// document is the indexed projection of a product.
type document struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Team        string `json:"team"`
	Category    string `json:"category"`
	KitType     string `json:"kit_type"`
	Color       string `json:"color"`
}

// Index is an in-memory bleve index of catalog products.
type Index struct {
	idx bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create product index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Build creates an index containing every product.
func Build(products []model.Product) (*Index, error) {
	i, err := NewIndex()
	if err != nil {
		return nil, err
	}
	if err := i.Add(products...); err != nil {
		_ = i.Close()
		return nil, err
	}
	logx.Debug().Int("products", len(products)).Msg("Product index built")
	return i, nil
}

// Add indexes (or re-indexes) products by ID.
func (i *Index) Add(products ...model.Product) error {
	batch := i.idx.NewBatch()
	for _, p := range products {
		if err := batch.Index(p.ID, document{
			Name:        p.Name,
			Description: p.Description,
			Team:        p.Team,
			Category:    p.Category,
			KitType:     p.KitType,
			Color:       p.Color,
		}); err != nil {
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
	}
	if err := i.idx.Batch(batch); err != nil {
		return fmt.Errorf("commit product batch: %w", err)
	}
	return nil
}

// Search returns product IDs matching query, best match first.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, 0, false)
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		logx.Error().Err(err).Str("query", query).Msg("product search failed")
		return nil, fmt.Errorf("search products: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.idx.Close()
}
