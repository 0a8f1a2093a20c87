package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/upl-merch/assistant/internal/agent"
	"github.com/upl-merch/assistant/internal/agent/graph/conversations"
	"github.com/upl-merch/assistant/internal/agent/graph/nodes"
	"github.com/upl-merch/assistant/internal/agent/graph/tools"
	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/agent/repo"
	"github.com/upl-merch/assistant/internal/search"
	"github.com/upl-merch/assistant/internal/store"
	logx "github.com/upl-merch/assistant/pkg/logger"
)

// App owns the long-lived dependencies shared by every request.
type App struct {
	Store    *store.SQLiteStore
	Index    *search.Index
	Redis    *redis.Client
	Messages *conversations.MessagesManager
	Agents   *agent.Factory
}

// newApp opens the catalog, seeds it when empty, indexes it for text search
// and wires the agent factory on top.
func newApp(ctx context.Context, c AppConfig) (*App, error) {
	if c.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	app := &App{}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	st, err := store.NewSQLite(ctx, c.Store.Path)
	if err != nil {
		return nil, err
	}
	app.Store = st

	if err := seedIfEmpty(ctx, st); err != nil {
		return nil, err
	}

	products, err := st.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	idx, err := search.Build(products)
	if err != nil {
		return nil, err
	}
	app.Index = idx

	convRepo, err := app.conversationRepository(ctx, c)
	if err != nil {
		return nil, err
	}
	app.Messages = conversations.NewMessagesManager(convRepo, c.Conversation)

	chatModel, err := nodes.NewChatModel(ctx, nodes.ChatModelConfig{
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		ModelName: agent.DefaultModel,
		Model:     &c.Model,
	})
	if err != nil {
		return nil, err
	}

	toolbox := tools.NewToolbox(st, st, idx)
	app.Agents = agent.NewFactory(chatModel, toolbox, app.Messages, c.Conversation.Tools.MaxCalls)

	logx.Info().
		Str("environment", c.Env().String()).
		Str("model", agent.DefaultModel).
		Int("products", len(products)).
		Bool("redis", app.Redis != nil).
		Msg("Assistant ready")

	ok = true
	return app, nil
}

func (a *App) conversationRepository(ctx context.Context, c AppConfig) (model.ConversationRepository, error) {
	if !c.Redis.Enabled() {
		logx.Warn().Msg("REDIS_URL not set; conversations are kept in memory")
		return repo.NewMemoryConversationRepository(c.Conversation.MaxMessages), nil
	}

	ttl, err := c.ConversationTTL()
	if err != nil {
		return nil, err
	}
	rdb, err := c.Redis.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.Redis = rdb
	return repo.NewRedisConversationRepository(rdb, ttl, c.Conversation.MaxMessages), nil
}

// Ping reports whether Redis, when configured, is reachable.
func (a *App) Ping(ctx context.Context) error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Ping(ctx).Err()
}

func (a *App) Close() {
	if a.Index != nil {
		_ = a.Index.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

func seedIfEmpty(ctx context.Context, st *store.SQLiteStore) error {
	n, err := st.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}
	data, err := store.DefaultSeed()
	if err != nil {
		return err
	}
	return store.Seed(ctx, st, data)
}
