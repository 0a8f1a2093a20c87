package nodes

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upl-merch/assistant/internal/agent/graph/conversations"
	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/agent/repo"
)

func TestRepairToolCallIDsByPosition(t *testing.T) {
	calls := []schema.ToolCall{{ID: "call_a"}, {ID: "call_b"}, {ID: "call_c"}}
	in := []*schema.Message{
		schema.ToolMessage("first", ""),
		schema.ToolMessage("second", "call_b"),
		schema.ToolMessage("third", ""),
	}

	repairToolCallIDs(in, calls)

	assert.Equal(t, "call_a", in[0].ToolCallID)
	assert.Equal(t, "call_b", in[1].ToolCallID)
	assert.Equal(t, "call_c", in[2].ToolCallID)
}

func TestRepairToolCallIDsWithoutCalls(t *testing.T) {
	in := []*schema.Message{schema.ToolMessage("orphan", "")}
	repairToolCallIDs(in, nil)
	assert.Empty(t, in[0].ToolCallID)
}

func TestLastToolCallsSkipsFinalAnswers(t *testing.T) {
	history := []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{ID: "old"}}),
		schema.ToolMessage("result", "old"),
		schema.AssistantMessage("", []schema.ToolCall{{ID: "new1"}, {ID: "new2"}}),
	}
	calls := lastToolCalls(history)
	require.Len(t, calls, 2)
	assert.Equal(t, "new1", calls[0].ID)
}

func TestResponsePostHandlerDropsToolCallsPastLimit(t *testing.T) {
	var cfg model.ConversationConfig
	r := repo.NewMemoryConversationRepository(50)
	mm := conversations.NewMessagesManager(r, cfg)
	state := &model.AppState{ConversationID: "anon:c1", ToolCallLimitReached: true}

	out := schema.AssistantMessage("", []schema.ToolCall{{Function: schema.FunctionCall{Name: "searchProducts"}}})
	got, err := NewResponseChatModelPostHandler(mm, "gemini-2.5-flash")(context.Background(), out, state)
	require.NoError(t, err)

	assert.Empty(t, got.ToolCalls)
	assert.Equal(t, ToolLimitFallback, got.Content)

	history, err := r.LoadHistory(context.Background(), "anon:c1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, ToolLimitFallback, history.Messages[0].Content)
}

func TestResponsePostHandlerKeepsContentPastLimit(t *testing.T) {
	var cfg model.ConversationConfig
	mm := conversations.NewMessagesManager(repo.NewMemoryConversationRepository(50), cfg)
	state := &model.AppState{ConversationID: "anon:c2", ToolCallLimitReached: true}

	out := schema.AssistantMessage("Here is what I found.", []schema.ToolCall{{ID: "x"}})
	got, err := NewResponseChatModelPostHandler(mm, "gemini-2.5-flash")(context.Background(), out, state)
	require.NoError(t, err)
	assert.Equal(t, "Here is what I found.", got.Content)
	assert.Empty(t, got.ToolCalls)
}
