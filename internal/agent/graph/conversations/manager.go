package conversations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/upl-merch/assistant/internal/agent/model"
)

const anonymousOwner = "anon"

// Key scopes a client conversation id to its owner so one user's transcript
// can never be loaded or cleared by another. Anonymous visitors share the
// "anon" owner. The owner is escaped so ':' cannot forge another owner.
func Key(userID, conversationID string) string {
	owner := strings.TrimSpace(userID)
	if owner == "" {
		owner = anonymousOwner
	} else {
		owner = url.QueryEscape(owner)
	}
	return owner + ":" + conversationID
}

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.History.MaxTurns,
	}
}

// SaveUserMessage appends the user's query to the transcript.
func (cm *MessagesManager) SaveUserMessage(ctx context.Context, conversationID string, query string) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is empty")
	}
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext returns the system prompt followed by the most recent
// user/assistant turns of the conversation.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	recent := trimTail(history.Messages, cm.maxTurns)

	messages := make([]*schema.Message, 0, len(recent)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, msg := range recent {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case schema.User, schema.Assistant:
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// Clear drops the whole transcript.
func (cm *MessagesManager) Clear(ctx context.Context, conversationID string) error {
	return cm.conversationRepo.ClearHistory(ctx, conversationID)
}

// Count returns the number of stored messages.
func (cm *MessagesManager) Count(ctx context.Context, conversationID string) (int, error) {
	return cm.conversationRepo.GetMessageCount(ctx, conversationID)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
