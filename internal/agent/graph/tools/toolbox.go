package tools

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/upl-merch/assistant/internal/agent/model"
)

// Tool names are part of the prompt contract with the model.
const (
	ToolSearchProducts = "searchProducts"
	ToolGetMyOrders    = "getMyOrders"
)

// ProductFinder looks products up by structured filters.
type ProductFinder interface {
	FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
}

// OrderLister lists a single user's orders.
type OrderLister interface {
	ListOrders(ctx context.Context, userID, status string) ([]model.Order, error)
}

// TextSearcher resolves free text to product IDs, best match first.
type TextSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Toolbox creates the business tools exposed to the agent.
type Toolbox struct {
	products ProductFinder
	orders   OrderLister
	search   TextSearcher
}

func NewToolbox(products ProductFinder, orders OrderLister, search TextSearcher) *Toolbox {
	return &Toolbox{products: products, orders: orders, search: search}
}

// FormatUGX renders whole shillings as "UGX 95,000".
func FormatUGX(v int64) string {
	return "UGX " + humanize.Comma(v)
}
