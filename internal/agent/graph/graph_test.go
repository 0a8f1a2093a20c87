package graph

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upl-merch/assistant/internal/agent/agenttest"
	"github.com/upl-merch/assistant/internal/agent/graph/conversations"
	"github.com/upl-merch/assistant/internal/agent/graph/nodes"
	"github.com/upl-merch/assistant/internal/agent/graph/tools"
	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/agent/repo"
	"github.com/upl-merch/assistant/internal/search"
	"github.com/upl-merch/assistant/internal/store"
)

type fixture struct {
	repo    *repo.MemoryConversationRepository
	mm      *conversations.MessagesManager
	toolbox *tools.Toolbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	s, err := store.NewSQLite(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	data, err := store.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx, s, data))

	idx, err := search.Build(data.Products)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	r := repo.NewMemoryConversationRepository(50)
	var cfg model.ConversationConfig
	cfg.History.MaxTurns = 20

	return &fixture{
		repo:    r,
		mm:      conversations.NewMessagesManager(r, cfg),
		toolbox: tools.NewToolbox(s, s, idx),
	}
}

func (f *fixture) build(t *testing.T, cm *agenttest.ChatModel, maxCalls int, ts ...tool.BaseTool) Runner {
	t.Helper()
	return f.buildFor(t, "", cm, maxCalls, ts...)
}

func (f *fixture) buildFor(t *testing.T, owner string, cm *agenttest.ChatModel, maxCalls int, ts ...tool.BaseTool) Runner {
	t.Helper()
	if len(ts) == 0 {
		ts = []tool.BaseTool{f.toolbox.SearchProducts()}
	}
	r, err := Build(context.Background(), &GraphConfig{
		ChatModel:       cm,
		ModelName:       "gemini-2.5-flash",
		Instructions:    "You are a shop assistant.",
		Tools:           ts,
		MessagesManager: f.mm,
		ToolMaxCalls:    maxCalls,
		Owner:           owner,
	})
	require.NoError(t, err)
	return r
}

func lastMessage(msgs []*schema.Message) *schema.Message {
	return msgs[len(msgs)-1]
}

func TestRunnerAnswersWithoutTools(t *testing.T) {
	f := newFixture(t)
	cm := agenttest.NewChatModel(agenttest.Reply("Hello! How can I help?"))

	reply, err := f.build(t, cm, 4).Invoke(context.Background(), model.QueryInput{ConversationID: "c1", Query: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply.Content)
	assert.Equal(t, "c1", reply.ConversationID)

	inputs := cm.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, schema.System, inputs[0][0].Role)
	assert.Equal(t, "You are a shop assistant.", inputs[0][0].Content)
	assert.Equal(t, "hi", lastMessage(inputs[0]).Content)

	assert.Equal(t, [][]string{{tools.ToolSearchProducts}}, cm.BoundTools())

	history, err := f.repo.LoadHistory(context.Background(), conversations.Key("", "c1"))
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)
}

func TestRunnerExecutesToolCalls(t *testing.T) {
	f := newFixture(t)
	cm := agenttest.NewChatModel(
		agenttest.ToolCall(tools.ToolSearchProducts, `{"team":" KCCA ","kitType":"HOME","size":"M","category":"jerseys"}`),
		agenttest.WithUsage(agenttest.Reply("The KCCA FC home jersey is UGX 95,000."), 1_000_000, 0),
	)

	reply, err := f.build(t, cm, 4).Invoke(context.Background(), model.QueryInput{ConversationID: "c2", Query: "KCCA home jersey in M?"})
	require.NoError(t, err)
	assert.Equal(t, "The KCCA FC home jersey is UGX 95,000.", reply.Content)
	assert.InDelta(t, 0.30, reply.CostUSD, 1e-9)

	inputs := cm.Inputs()
	require.Len(t, inputs, 2)

	call := inputs[1][len(inputs[1])-2]
	require.Equal(t, schema.Assistant, call.Role)
	require.Len(t, call.ToolCalls, 1)
	assert.Equal(t, "call_1", call.ToolCalls[0].ID)

	result := lastMessage(inputs[1])
	assert.Equal(t, schema.Tool, result.Role)
	assert.Equal(t, "call_1", result.ToolCallID)
	assert.Contains(t, result.Content, "KCCA FC Home Jersey 2025/26")
	assert.Contains(t, result.Content, "UGX 95,000")

	// Tool traffic stays out of the stored transcript.
	history, err := f.repo.LoadHistory(context.Background(), conversations.Key("", "c2"))
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
}

func TestRunnerWrapsUpAtToolLimit(t *testing.T) {
	f := newFixture(t)
	cm := agenttest.NewChatModel(
		agenttest.ToolCall(tools.ToolSearchProducts, `{"query":"scarf"}`),
		agenttest.Reply("We have a supporters scarf."),
	)

	reply, err := f.build(t, cm, 1).Invoke(context.Background(), model.QueryInput{ConversationID: "c3", Query: "scarves?"})
	require.NoError(t, err)
	assert.Equal(t, "We have a supporters scarf.", reply.Content)

	inputs := cm.Inputs()
	require.Len(t, inputs, 2)
	notice := lastMessage(inputs[1])
	assert.Equal(t, schema.System, notice.Role)
	assert.Contains(t, notice.Content, "maximum tool call limit (1)")
}

func TestRunnerFallsBackWhenToolsPersistPastLimit(t *testing.T) {
	f := newFixture(t)
	orders := f.toolbox.GetMyOrders("user-demo")
	cm := agenttest.NewChatModel(
		agenttest.ToolCall(tools.ToolGetMyOrders, `{}`),
		agenttest.ToolCall(tools.ToolGetMyOrders, `{"status":"shipped"}`),
	)

	r := f.buildFor(t, "user-demo", cm, 1, f.toolbox.SearchProducts(), orders)
	reply, err := r.Invoke(context.Background(), model.QueryInput{ConversationID: "c6", Query: "my orders?"})
	require.NoError(t, err)
	assert.Equal(t, nodes.ToolLimitFallback, reply.Content)

	history, err := f.repo.LoadHistory(context.Background(), conversations.Key("user-demo", "c6"))
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, nodes.ToolLimitFallback, history.Messages[1].Content)
}

func TestRunnerKeepsConversationsPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := agenttest.NewChatModel(agenttest.Reply("Order #UPL-1001 has shipped."))
	_, err := f.buildFor(t, "user-demo", owner, 4).Invoke(ctx, model.QueryInput{ConversationID: "c1", Query: "where is my order"})
	require.NoError(t, err)

	other := agenttest.NewChatModel(agenttest.Reply("Which order do you mean?"))
	_, err = f.buildFor(t, "", other, 4).Invoke(ctx, model.QueryInput{ConversationID: "c1", Query: "repeat that"})
	require.NoError(t, err)

	sent := other.Inputs()[0]
	require.Len(t, sent, 2)
	for _, msg := range sent {
		assert.NotContains(t, msg.Content, "UPL-1001")
	}

	n, err := f.mm.Count(ctx, conversations.Key("user-demo", "c1"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunnerHandlesUnknownTool(t *testing.T) {
	f := newFixture(t)
	cm := agenttest.NewChatModel(
		agenttest.ToolCall(tools.ToolGetMyOrders, `{}`),
		agenttest.Reply("Please sign in to see your orders."),
	)

	reply, err := f.build(t, cm, 4).Invoke(context.Background(), model.QueryInput{ConversationID: "c4", Query: "where is my order"})
	require.NoError(t, err)
	assert.Equal(t, "Please sign in to see your orders.", reply.Content)

	result := lastMessage(cm.Inputs()[1])
	assert.True(t, strings.Contains(result.Content, "unknown_tool"), result.Content)
}

func TestRunnerRejectsEmptyQuery(t *testing.T) {
	f := newFixture(t)
	cm := agenttest.NewChatModel(agenttest.Reply("unused"))

	_, err := f.build(t, cm, 4).Invoke(context.Background(), model.QueryInput{ConversationID: "c5", Query: "  "})
	require.Error(t, err)
	assert.Empty(t, cm.Inputs())
}

func TestBuildGraphValidatesConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cm := agenttest.NewChatModel(agenttest.Reply("ok"))

	_, err := BuildGraph(ctx, nil)
	assert.Error(t, err)

	_, err = BuildGraph(ctx, &GraphConfig{MessagesManager: f.mm, Tools: []tool.BaseTool{f.toolbox.SearchProducts()}})
	assert.Error(t, err)

	_, err = BuildGraph(ctx, &GraphConfig{ChatModel: cm, Tools: []tool.BaseTool{f.toolbox.SearchProducts()}})
	assert.Error(t, err)

	_, err = BuildGraph(ctx, &GraphConfig{ChatModel: cm, MessagesManager: f.mm})
	assert.Error(t, err)
}
