package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/core/model"
)

// MessageRepository reads conversations and messages written by the
// conversation service.
type MessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMessageRepository(db *sql.DB, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

// RecentByFamily returns messages of a family sent at or after since,
// oldest first.
func (r *MessageRepository) RecentByFamily(ctx context.Context, familyID string, since time.Time) ([]model.Message, error) {
	query := `
		SELECT m.message_id, m.conversation_id, c.family_id, m.sender_name, m.message_type, m.content, m.sent_at
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.conversation_id
		WHERE c.family_id = $1
		  AND m.sent_at >= $2
		ORDER BY m.sent_at
	`

	rows, err := r.db.QueryContext(ctx, query, familyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.FamilyID, &m.SenderName, &m.Type, &m.Content, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// ListConversations returns all conversations of a family.
func (r *MessageRepository) ListConversations(ctx context.Context, familyID string) ([]model.Conversation, error) {
	query := `
		SELECT conversation_id, family_id, title, created_at
		FROM conversations
		WHERE family_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	return conversations, nil
}

// LastMessage returns the most recent message of a conversation, or nil
// when the conversation is empty.
func (r *MessageRepository) LastMessage(ctx context.Context, conversationID string) (*model.Message, error) {
	query := `
		SELECT m.message_id, m.conversation_id, c.family_id, m.sender_name, m.message_type, m.content, m.sent_at
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.conversation_id
		WHERE m.conversation_id = $1
		ORDER BY m.sent_at DESC
		LIMIT 1
	`

	var m model.Message
	err := r.db.QueryRowContext(ctx, query, conversationID).Scan(
		&m.ID, &m.ConversationID, &m.FamilyID, &m.SenderName, &m.Type, &m.Content, &m.SentAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query last message: %w", err)
	}
	return &m, nil
}
