package chatmessages

import (
	"context"

	"github.com/pawmate/pawmate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	// ListBySession returns the most recent messages of a session,
	// newest first.
	ListBySession(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error)
	// ListRecent returns the most recent messages across all of the
	// user's sessions, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error)
	DeleteSession(ctx context.Context, userID, sessionID string) (int64, error)
	Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error)
}
