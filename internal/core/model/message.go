package model

import "time"

type MessageType string

const (
	MessageText  MessageType = "TEXT"
	MessageImage MessageType = "IMAGE"
)

// Message is a single entry in a family conversation. Messages are
// written by the conversation service; this pipeline only reads them.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	FamilyID       string      `json:"familyId"`
	SenderName     string      `json:"senderName"`
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	SentAt         time.Time   `json:"sentAt"`
}

// Conversation is a chat room within a family group.
type Conversation struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"familyId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
