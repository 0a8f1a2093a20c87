package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upl-merch/assistant/internal/agent/model"
)

func newSeededStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	data, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, data))
	return s
}

func TestFindProductsFilters(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter model.ProductFilter
		check  func(t *testing.T, got []model.Product)
	}{
		{
			name:   "category",
			filter: model.ProductFilter{Category: "fan-gear"},
			check: func(t *testing.T, got []model.Product) {
				require.Len(t, got, 3)
				for _, p := range got {
					assert.Equal(t, "fan-gear", p.Category)
				}
			},
		},
		{
			name:   "team is case insensitive and partial",
			filter: model.ProductFilter{Team: "vipers", KitType: "away"},
			check: func(t *testing.T, got []model.Product) {
				require.Len(t, got, 1)
				assert.Equal(t, "vipers-away-jersey", got[0].Slug)
			},
		},
		{
			name:   "size and kit type",
			filter: model.ProductFilter{Category: "jerseys", Team: "KCCA", KitType: "home", Size: "M"},
			check: func(t *testing.T, got []model.Product) {
				require.Len(t, got, 1)
				assert.Equal(t, "prod-kcca-home-m", got[0].ID)
			},
		},
		{
			name:   "price range cheapest first",
			filter: model.ProductFilter{MinPrice: 30000, MaxPrice: 60000},
			check: func(t *testing.T, got []model.Product) {
				require.NotEmpty(t, got)
				for i, p := range got {
					assert.GreaterOrEqual(t, p.Price, int64(30000))
					assert.LessOrEqual(t, p.Price, int64(60000))
					if i > 0 {
						assert.GreaterOrEqual(t, p.Price, got[i-1].Price)
					}
				}
			},
		},
		{
			name:   "ids and limit",
			filter: model.ProductFilter{IDs: []string{"prod-boots-42", "prod-shin-guards", "prod-upl-flag"}, Limit: 2},
			check: func(t *testing.T, got []model.Product) {
				require.Len(t, got, 2)
				assert.Equal(t, "prod-shin-guards", got[0].ID)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindProducts(ctx, tc.filter)
			require.NoError(t, err)
			tc.check(t, got)
		})
	}
}

func TestFindProductsTeamWildcardsAreLiteral(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	for _, team := range []string{"%", "_", "K_CA", `KCCA\`} {
		got, err := s.FindProducts(ctx, model.ProductFilter{Team: team})
		require.NoError(t, err)
		assert.Empty(t, got, "team %q", team)
	}

	got, err := s.FindProducts(ctx, model.ProductFilter{Team: "kcca"})
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestListOrdersScopedToUser(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertOrder(ctx, model.Order{
		ID: "ord-other", UserID: "someone-else", OrderNumber: "UPL-9999",
		Status: "paid", Total: 15000, CreatedAt: time.Now(),
		Items: []model.OrderItem{{ProductID: "prod-socks-kcca", Name: "KCCA FC Match Socks", Quantity: 1, UnitPrice: 15000}},
	}))

	orders, err := s.ListOrders(ctx, "user-demo", "")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "UPL-1002", orders[0].OrderNumber, "newest first")
	for _, o := range orders {
		assert.Equal(t, "user-demo", o.UserID)
		assert.NotEmpty(t, o.Items)
	}

	shipped, err := s.ListOrders(ctx, "user-demo", "shipped")
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	require.Len(t, shipped[0].Items, 2)
	assert.Equal(t, "KCCA FC Knitted Scarf", shipped[0].Items[1].Name)

	none, err := s.ListOrders(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newSeededStore(t)
	ctx := context.Background()

	before, err := s.CountProducts(ctx)
	require.NoError(t, err)

	data, err := DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, data))

	after, err := s.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReadSeedRejectsUnknownTaxonomyValues(t *testing.T) {
	doc := `
products:
  - id: p1
    slug: p1
    name: Mystery Shirt
    category: jerseys
    kit_type: fourth
    price: 1000
    stock: 1
`
	_, err := ReadSeed(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kit type")
}
