package tools

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/catalog"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

const (
	searchResultLimit = 10
	lowStockThreshold = 5

	StockInStock    = "in_stock"
	StockLowStock   = "low_stock"
	StockOutOfStock = "out_of_stock"
)

type SearchProductsInput struct {
	Query    string  `json:"query"`
	Category string  `json:"category,omitempty"`
	Team     string  `json:"team,omitempty"`
	KitType  string  `json:"kitType,omitempty"`
	Size     string  `json:"size,omitempty"`
	MinPrice float64 `json:"minPrice,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

type ProductResult struct {
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
	Category       string `json:"category"`
	Team           string `json:"team,omitempty"`
	KitType        string `json:"kitType,omitempty"`
	Size           string `json:"size,omitempty"`
	StockStatus    string `json:"stockStatus"`
	StockMessage   string `json:"stockMessage"`
	ProductURL     string `json:"productUrl"`
}

type SearchProductsOutput struct {
	Products []ProductResult `json:"products"`
	Total    int             `json:"total"`
	Message  string          `json:"message,omitempty"`
}

// SearchProducts returns the catalog search tool. It is available to every
// visitor, signed in or not.
func (tb *Toolbox) SearchProducts() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProducts,
			Desc: "Search the Uganda league football merchandise catalog. Returns matching products with price in UGX, stock status and product page link. Call once per user query.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type: schema.String,
					Desc: `Text search for product name/description (e.g., "Vipers jersey", "scarf", "boots"). Leave empty when only filters apply.`,
				},
				"category": {
					Type: schema.String,
					Desc: "Product type filter. Leave empty if not specified.",
					Enum: catalog.Categories.Values(),
				},
				"team": {
					Type: schema.String,
					Desc: `Club/team filter (e.g., "KCCA", "Vipers", "SC Villa", "Express").`,
				},
				"kitType": {
					Type: schema.String,
					Desc: "Kit variant filter. Leave empty if not specified.",
					Enum: catalog.KitTypes.Values(),
				},
				"size": {
					Type: schema.String,
					Desc: "Size filter. Leave empty if not specified.",
					Enum: catalog.Sizes.Values(),
				},
				"minPrice": {
					Type: schema.Number,
					Desc: "Minimum price in UGX (0 = no minimum).",
				},
				"maxPrice": {
					Type: schema.Number,
					Desc: "Maximum price in UGX (0 = no maximum).",
				},
			}),
		},
		tb.searchProducts,
	)
}

func (tb *Toolbox) searchProducts(ctx context.Context, in *SearchProductsInput) (*SearchProductsOutput, error) {
	filter := model.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		Team:     strings.TrimSpace(in.Team),
		KitType:  strings.TrimSpace(in.KitType),
		Size:     strings.TrimSpace(in.Size),
		MinPrice: wholeShillings(in.MinPrice),
		MaxPrice: wholeShillings(in.MaxPrice),
		Limit:    searchResultLimit,
	}
	if filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		filter.MinPrice, filter.MaxPrice = filter.MaxPrice, filter.MinPrice
	}

	var ranked []string
	if q := strings.TrimSpace(in.Query); q != "" {
		ids, err := tb.search.Search(ctx, q, 0)
		if err != nil {
			return nil, fmt.Errorf("search products: %w", err)
		}
		if len(ids) == 0 {
			return noProducts(), nil
		}
		ranked = ids
		filter.IDs = ids
		filter.Limit = 0
	}

	products, err := tb.products.FindProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	if ranked != nil {
		rank := make(map[string]int, len(ranked))
		for i, id := range ranked {
			rank[id] = i
		}
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return rank[a.ID] - rank[b.ID]
		})
		if len(products) > searchResultLimit {
			products = products[:searchResultLimit]
		}
	}

	logx.Debug().
		Str("query", in.Query).
		Str("category", filter.Category).
		Str("team", filter.Team).
		Int("results", len(products)).
		Msg("searchProducts")

	if len(products) == 0 {
		return noProducts(), nil
	}

	out := &SearchProductsOutput{
		Products: make([]ProductResult, 0, len(products)),
		Total:    len(products),
	}
	for _, p := range products {
		out.Products = append(out.Products, toProductResult(p))
	}
	return out, nil
}

func noProducts() *SearchProductsOutput {
	return &SearchProductsOutput{
		Products: []ProductResult{},
		Message:  "No products found. Suggest broadening the search.",
	}
}

func toProductResult(p model.Product) ProductResult {
	status, msg := StockInfo(p.Stock)
	return ProductResult{
		Name:           p.Name,
		Price:          p.Price,
		PriceFormatted: FormatUGX(p.Price),
		Category:       p.Category,
		Team:           p.Team,
		KitType:        p.KitType,
		Size:           p.Size,
		StockStatus:    status,
		StockMessage:   msg,
		ProductURL:     "/products/" + p.Slug,
	}
}

// StockInfo classifies a stock level.
func StockInfo(stock int) (status, message string) {
	switch {
	case stock <= 0:
		return StockOutOfStock, "Out of stock"
	case stock <= lowStockThreshold:
		return StockLowStock, fmt.Sprintf("Low stock - only %d left", stock)
	default:
		return StockInStock, fmt.Sprintf("In stock (%d available)", stock)
	}
}

// wholeShillings truncates v to whole shillings, saturating at MaxInt64.
func wholeShillings(v float64) int64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
