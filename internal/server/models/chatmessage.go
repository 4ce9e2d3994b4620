package models

import "time"

// Chat message roles. The assistant role covers every pet persona.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a pet-chat conversation. Messages are grouped
// by a client-chosen session id; "default" when the client does not care.
type ChatMessage struct {
	ID        string
	UserID    string
	Role      string
	Content   string
	SessionID string
	CreatedAt time.Time
}

// SessionSummary aggregates a session for listing: message count, last
// activity and a short preview of the most recent message.
type SessionSummary struct {
	SessionID       string
	MessageCount    int64
	LastMessageTime time.Time
	Preview         string
}

// ChatStatistics is the per-user aggregate returned by the statistics endpoint.
type ChatStatistics struct {
	TotalSessions     int64
	TotalMessages     int64
	UserMessages      int64
	AssistantMessages int64
	FirstChatAt       *time.Time
	LastChatAt        *time.Time
}
