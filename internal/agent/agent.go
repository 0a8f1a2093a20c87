// Package agent assembles the shopping assistant for a single request: the
// model to call, the system instructions and the tools the user may use.
package agent

import (
	"context"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"

	"github.com/upl-merch/assistant/internal/agent/graph"
	"github.com/upl-merch/assistant/internal/agent/graph/conversations"
	"github.com/upl-merch/assistant/internal/agent/graph/observers"
	"github.com/upl-merch/assistant/internal/agent/graph/prompts"
	"github.com/upl-merch/assistant/internal/agent/graph/tools"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

// DefaultModel is the hosted model every agent runs on.
const DefaultModel = "gemini-2.5-flash"

// Options describe who the agent is serving. An empty UserID means the
// visitor is not signed in.
type Options struct {
	UserID string
}

// ToolProvider creates the business tools. GetMyOrders returns nil when the
// user id is empty.
type ToolProvider interface {
	SearchProducts() tool.InvokableTool
	GetMyOrders(userID string) tool.InvokableTool
}

// Configuration is the per-request agent setup.
type Configuration struct {
	Model         string
	Instructions  string
	Authenticated bool
	Tools         map[string]tool.InvokableTool
}

// ToolNames returns the registered tool names in a stable order.
func (c *Configuration) ToolNames() []string {
	names := make([]string, 0, len(c.Tools))
	for _, name := range []string{tools.ToolSearchProducts, tools.ToolGetMyOrders} {
		if _, ok := c.Tools[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// ToolList returns the registered tools in ToolNames order.
func (c *Configuration) ToolList() []tool.BaseTool {
	names := c.ToolNames()
	out := make([]tool.BaseTool, 0, len(names))
	for _, name := range names {
		out = append(out, c.Tools[name])
	}
	return out
}

// Configure builds the agent configuration for opts. Product search is always
// registered; order lookup only when the provider yields a tool for the user.
func Configure(ctx context.Context, opts Options, tp ToolProvider) (*Configuration, error) {
	if tp == nil {
		return nil, fmt.Errorf("tool provider is nil")
	}

	authenticated := strings.TrimSpace(opts.UserID) != ""

	instructions, err := prompts.RenderInstructions(ctx, authenticated)
	if err != nil {
		return nil, err
	}

	search := tp.SearchProducts()
	if search == nil {
		return nil, fmt.Errorf("product search tool is nil")
	}
	registry := map[string]tool.InvokableTool{
		tools.ToolSearchProducts: search,
	}
	if orders := tp.GetMyOrders(opts.UserID); orders != nil {
		registry[tools.ToolGetMyOrders] = orders
	}

	return &Configuration{
		Model:         DefaultModel,
		Instructions:  instructions,
		Authenticated: authenticated,
		Tools:         registry,
	}, nil
}

// Factory creates a fresh agent for every request.
type Factory struct {
	chatModel einomodel.ToolCallingChatModel
	tools     ToolProvider
	messages  *conversations.MessagesManager
	maxCalls  int
}

func NewFactory(chatModel einomodel.ToolCallingChatModel, tp ToolProvider, mm *conversations.MessagesManager, maxToolCalls int) *Factory {
	return &Factory{
		chatModel: chatModel,
		tools:     tp,
		messages:  mm,
		maxCalls:  maxToolCalls,
	}
}

// New configures and compiles an agent for opts.
func (f *Factory) New(ctx context.Context, opts Options) (graph.Runner, error) {
	// Rendering happens before the graph runs, so observers are attached here.
	promptCtx := einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      "ShoppingInstructions",
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, observers.NewAllCallbacks())

	cfg, err := Configure(promptCtx, opts, f.tools)
	if err != nil {
		return nil, fmt.Errorf("configure agent: %w", err)
	}

	runner, err := graph.Build(ctx, &graph.GraphConfig{
		ChatModel:       f.chatModel,
		ModelName:       cfg.Model,
		Instructions:    cfg.Instructions,
		Owner:           strings.TrimSpace(opts.UserID),
		Tools:           cfg.ToolList(),
		MessagesManager: f.messages,
		ToolMaxCalls:    f.maxCalls,
	})
	if err != nil {
		return nil, fmt.Errorf("build agent: %w", err)
	}

	logx.Debug().
		Bool("authenticated", cfg.Authenticated).
		Strs("tools", cfg.ToolNames()).
		Msg("Agent ready")
	return runner, nil
}

// Messages exposes the conversation store the agents write to.
func (f *Factory) Messages() *conversations.MessagesManager {
	return f.messages
}
