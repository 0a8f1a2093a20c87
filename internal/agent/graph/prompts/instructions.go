package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/upl-merch/assistant/internal/agent/graph/tools"
)

//go:embed template/base_instructions.txt
var baseInstructions string

//go:embed template/orders_instructions.txt
var ordersInstructions string

//go:embed template/not_authenticated_instructions.txt
var notAuthenticatedInstructions string

// RenderInstructions renders the shopping assistant system prompt via the
// Eino prompt component so prompt callbacks fire. Signed-in users get the
// order tool guide; everyone else is told to sign in for order questions.
func RenderInstructions(ctx context.Context, authenticated bool) (string, error) {
	text := baseInstructions
	if authenticated {
		text += ordersInstructions
	} else {
		text += notAuthenticatedInstructions
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(text),
	)
	vars := map[string]any{
		"SearchTool": tools.ToolSearchProducts,
		"OrdersTool": tools.ToolGetMyOrders,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("instructions render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("instructions render: empty result")
	}
	return msgs[0].Content, nil
}
