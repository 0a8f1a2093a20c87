package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/catalog"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

var statusEmoji = map[string]string{
	"pending":   "⏳",
	"paid":      "✅",
	"shipped":   "📦",
	"delivered": "🎉",
	"cancelled": "❌",
}

type GetMyOrdersInput struct {
	Status string `json:"status,omitempty"`
}

type OrderResult struct {
	ID             string   `json:"id"`
	OrderNumber    string   `json:"orderNumber"`
	Status         string   `json:"status"`
	StatusDisplay  string   `json:"statusDisplay"`
	ItemNames      []string `json:"itemNames"`
	ItemCount      int      `json:"itemCount"`
	Total          int64    `json:"total"`
	TotalFormatted string   `json:"totalFormatted"`
	CreatedAt      string   `json:"createdAt"`
}

type GetMyOrdersOutput struct {
	Orders  []OrderResult `json:"orders"`
	Total   int           `json:"total"`
	Message string        `json:"message,omitempty"`
}

// GetMyOrders returns the order lookup tool bound to userID, or nil when
// there is no signed-in user.
func (tb *Toolbox) GetMyOrders(userID string) tool.InvokableTool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil
	}

	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetMyOrders,
			Desc: "Get the signed-in customer's order history and delivery status.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"status": {
					Type: schema.String,
					Desc: "Optional order status filter. Leave empty for all orders.",
					Enum: catalog.OrderStatuses.Values(),
				},
			}),
		},
		func(ctx context.Context, in *GetMyOrdersInput) (*GetMyOrdersOutput, error) {
			status := strings.TrimSpace(in.Status)
			orders, err := tb.orders.ListOrders(ctx, userID, status)
			if err != nil {
				return nil, fmt.Errorf("list orders: %w", err)
			}

			logx.Debug().Str("user_id", userID).Str("status", status).Int("results", len(orders)).Msg("getMyOrders")

			out := &GetMyOrdersOutput{
				Orders: make([]OrderResult, 0, len(orders)),
				Total:  len(orders),
			}
			if len(orders) == 0 {
				out.Message = "No orders found."
				return out, nil
			}
			for _, o := range orders {
				out.Orders = append(out.Orders, toOrderResult(o))
			}
			return out, nil
		},
	)
}

// StatusDisplay renders an order status like "📦 Shipped".
func StatusDisplay(status string) string {
	label := catalog.OrderStatuses.Label(status)
	if label == "" {
		return status
	}
	return statusEmoji[status] + " " + label
}

func toOrderResult(o model.Order) OrderResult {
	names := make([]string, 0, len(o.Items))
	count := 0
	for _, it := range o.Items {
		name := it.Name
		if it.Quantity > 1 {
			name = fmt.Sprintf("%s x%d", it.Name, it.Quantity)
		}
		names = append(names, name)
		count += it.Quantity
	}
	return OrderResult{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		Status:         o.Status,
		StatusDisplay:  StatusDisplay(o.Status),
		ItemNames:      names,
		ItemCount:      count,
		Total:          o.Total,
		TotalFormatted: FormatUGX(o.Total),
		CreatedAt:      o.CreatedAt.Format("2 Jan 2006"),
	}
}
