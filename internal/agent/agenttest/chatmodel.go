// Package agenttest provides a scripted chat model for exercising agent
// graphs without a hosted model.
package agenttest

import (
	"context"
	"fmt"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel replays scripted replies in order and records what it was sent.
type ChatModel struct {
	mu      sync.Mutex
	replies []*schema.Message
	next    int
	inputs  [][]*schema.Message
	bound   [][]string
}

// NewChatModel returns a model that answers each Generate call with the next
// reply. Once the script runs out it answers with the last reply's text.
func NewChatModel(replies ...*schema.Message) *ChatModel {
	return &ChatModel{replies: replies}
}

// Reply is a final assistant answer with no tool calls.
func Reply(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

// ToolCall is an assistant message requesting a single tool call.
func ToolCall(name, arguments string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{{
		Type:     "function",
		Function: schema.FunctionCall{Name: name, Arguments: arguments},
	}})
}

// WithUsage attaches token usage to msg.
func WithUsage(msg *schema.Message, prompt, completion int) *schema.Message {
	msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}}
	return msg
}

func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]*schema.Message, len(input))
	copy(snapshot, input)
	m.inputs = append(m.inputs, snapshot)

	if len(m.replies) == 0 {
		return nil, fmt.Errorf("agenttest: no scripted replies")
	}
	if m.next >= len(m.replies) {
		return schema.AssistantMessage(m.replies[len(m.replies)-1].Content, nil), nil
	}
	out := m.replies[m.next]
	m.next++
	return out, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

// WithTools records the tool names and returns the same model so calls stay
// on one script.
func (m *ChatModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	m.mu.Lock()
	m.bound = append(m.bound, names)
	m.mu.Unlock()
	return m, nil
}

// Inputs returns the message lists passed to Generate, oldest first.
func (m *ChatModel) Inputs() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]*schema.Message, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// BoundTools returns the tool names of every WithTools call, oldest first.
func (m *ChatModel) BoundTools() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.bound))
	copy(out, m.bound)
	return out
}

var _ einomodel.ToolCallingChatModel = (*ChatModel)(nil)
