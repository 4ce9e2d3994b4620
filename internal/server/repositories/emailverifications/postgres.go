// Package emailverifications provides a PostgreSQL-backed repository for
// one-shot email verification tokens.
package emailverifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a verification row for userID; the token value is generated
// by the database.
func (r *PostgresRepository) Create(ctx context.Context, userID string, validity time.Duration) (*models.EmailVerification, error) {
	query := `
		INSERT INTO email_verifications (user_id, expires_at)
		VALUES ($1, $2)
		RETURNING id, token, created_at, expires_at
	`
	v := &models.EmailVerification{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID, time.Now().Add(validity)).
		Scan(&v.ID, &v.Token, &v.CreatedAt, &v.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.EmailVerification, error) {
	// The token column is uuid; a malformed value would fail the cast
	// with a db error instead of "no rows".
	if uuid.Validate(token) != nil {
		return nil, common.ErrorNotFound
	}
	query := `
		SELECT id, user_id, token, used, created_at, expires_at
		FROM email_verifications
		WHERE token = $1
	`
	v := &models.EmailVerification{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&v.ID, &v.UserID, &v.Token, &v.Used, &v.CreatedAt, &v.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, token string) error {
	if uuid.Validate(token) != nil {
		return common.ErrorNotFound
	}
	query := `UPDATE email_verifications SET used = true WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
