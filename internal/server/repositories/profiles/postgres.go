// Package profiles provides a PostgreSQL-backed repository for per-user
// profile rows.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts an empty profile row for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	profile := &models.Profile{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT id, user_id, phone, avatar_key, bio, birth_date, gender,
		       email_verified, phone_verified, login_count, last_login_ip,
		       created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.UserID, &profile.Phone, &profile.AvatarKey,
		&profile.Bio, &profile.BirthDate, &profile.Gender,
		&profile.EmailVerified, &profile.PhoneVerified,
		&profile.LoginCount, &profile.LastLoginIP,
		&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return profile, nil
}

// Update writes the mutable profile fields (phone, bio, birth date, gender).
func (r *PostgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET phone = $2, bio = $3, birth_date = $4, gender = $5, updated_at = now()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query,
		profile.UserID, profile.Phone, profile.Bio, profile.BirthDate, profile.Gender); err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetAvatarKey(ctx context.Context, userID, key string) error {
	query := `UPDATE profiles SET avatar_key = $2, updated_at = now() WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	query := `UPDATE profiles SET email_verified = true, updated_at = now() WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RecordLogin bumps the login counter and stores the client IP.
func (r *PostgresRepository) RecordLogin(ctx context.Context, userID, ip string) error {
	query := `
		UPDATE profiles
		SET login_count = login_count + 1, last_login_ip = $2, updated_at = now()
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, ip); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
