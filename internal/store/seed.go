package store

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/catalog"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

//go:embed seed/catalog.yaml
var defaultSeed []byte

// SeedData is the YAML document loaded by Seed.
type SeedData struct {
	Products []model.Product `yaml:"products"`
	Orders   []model.Order   `yaml:"orders"`
}

// DefaultSeed returns the demo catalog bundled with the binary.
func DefaultSeed() (*SeedData, error) {
	return ParseSeed(defaultSeed)
}

// ReadSeed decodes and validates a seed document.
func ReadSeed(r io.Reader) (*SeedData, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(b)
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(b []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks every enum-like field against the catalog taxonomies.
func (d *SeedData) Validate() error {
	for _, p := range d.Products {
		if p.ID == "" || p.Slug == "" || p.Name == "" {
			return fmt.Errorf("seed product %q: id, slug and name are required", p.ID)
		}
		if !catalog.Categories.Contains(p.Category) {
			return fmt.Errorf("seed product %s: unknown category %q", p.ID, p.Category)
		}
		if p.KitType != "" && !catalog.KitTypes.Contains(p.KitType) {
			return fmt.Errorf("seed product %s: unknown kit type %q", p.ID, p.KitType)
		}
		if p.Size != "" && !catalog.Sizes.Contains(p.Size) {
			return fmt.Errorf("seed product %s: unknown size %q", p.ID, p.Size)
		}
		if p.Color != "" && !catalog.Colors.Contains(p.Color) {
			return fmt.Errorf("seed product %s: unknown color %q", p.ID, p.Color)
		}
		if p.Price <= 0 || p.Stock < 0 {
			return fmt.Errorf("seed product %s: price must be positive and stock non-negative", p.ID)
		}
	}
	for _, o := range d.Orders {
		if o.ID == "" || o.UserID == "" || o.OrderNumber == "" {
			return fmt.Errorf("seed order %q: id, user_id and order_number are required", o.ID)
		}
		if !catalog.OrderStatuses.Contains(o.Status) {
			return fmt.Errorf("seed order %s: unknown status %q", o.ID, o.Status)
		}
	}
	return nil
}

// Seed writes every product and order in data to the repository.
func Seed(ctx context.Context, repo Repository, data *SeedData) error {
	for _, p := range data.Products {
		if err := repo.UpsertProduct(ctx, p); err != nil {
			return err
		}
	}
	for _, o := range data.Orders {
		if err := repo.UpsertOrder(ctx, o); err != nil {
			return err
		}
	}
	logx.Info().
		Int("products", len(data.Products)).
		Int("orders", len(data.Orders)).
		Msg("Catalog seeded")
	return nil
}
