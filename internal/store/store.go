// Package store persists the merchandise catalog and customer orders.
package store

import (
	"context"

	"github.com/upl-merch/assistant/internal/agent/model"
)

// Repository is the catalog and order persistence contract.
type Repository interface {
	// UpsertProduct creates or replaces a catalog product.
	UpsertProduct(ctx context.Context, p model.Product) error

	// FindProducts returns products matching the filter, cheapest first.
	FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error)

	// AllProducts returns the whole catalog.
	AllProducts(ctx context.Context) ([]model.Product, error)

	// UpsertOrder creates or replaces an order and its items.
	UpsertOrder(ctx context.Context, o model.Order) error

	// ListOrders returns a user's orders, newest first. An empty status
	// returns every status.
	ListOrders(ctx context.Context, userID, status string) ([]model.Order, error)

	// CountProducts returns the number of catalog products.
	CountProducts(ctx context.Context) (int, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
