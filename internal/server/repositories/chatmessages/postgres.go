// Package chatmessages provides a PostgreSQL-backed repository for pet-chat
// conversation history.
package chatmessages

import (
	"context"
	"fmt"

	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (user_id, role, content, session_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		msg.UserID, msg.Role, msg.Content, msg.SessionID).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

const selectMessage = `SELECT id, user_id, role, content, session_id, created_at FROM chat_messages`

func (r *PostgresRepository) listMessages(ctx context.Context, query string, args ...any) ([]models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.SessionID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := selectMessage + `
		WHERE user_id = $1 AND session_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	return r.listMessages(ctx, query, userID, sessionID, limit)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	query := selectMessage + `
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.listMessages(ctx, query, userID, limit)
}

// ListSessions groups the user's messages by session id and returns one
// summary per session, most recently active first. The preview is the first
// 50 characters of the latest message, with "..." appended when truncated.
func (r *PostgresRepository) ListSessions(ctx context.Context, userID string) ([]models.SessionSummary, error) {
	query := `
		WITH latest AS (
			SELECT m.session_id,
			       count(*) AS message_count,
			       max(m.created_at) AS last_message_time,
			       (array_agg(m.content ORDER BY m.created_at DESC))[1] AS last_content
			FROM chat_messages m
			WHERE m.user_id = $1
			GROUP BY m.session_id
		)
		SELECT session_id,
		       message_count,
		       last_message_time,
		       CASE WHEN length(last_content) > 50
		            THEN left(last_content, 50) || '...'
		            ELSE last_content
		       END AS preview
		FROM latest
		ORDER BY last_message_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.SessionSummary
	for rows.Next() {
		var s models.SessionSummary
		if err := rows.Scan(&s.SessionID, &s.MessageCount, &s.LastMessageTime, &s.Preview); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, userID, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Statistics(ctx context.Context, userID string) (*models.ChatStatistics, error) {
	query := `
		SELECT count(DISTINCT session_id),
		       count(*),
		       count(*) FILTER (WHERE role = 'user'),
		       count(*) FILTER (WHERE role = 'assistant'),
		       min(created_at),
		       max(created_at)
		FROM chat_messages
		WHERE user_id = $1
	`
	stats := &models.ChatStatistics{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalSessions, &stats.TotalMessages,
		&stats.UserMessages, &stats.AssistantMessages,
		&stats.FirstChatAt, &stats.LastChatAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return stats, nil
}
