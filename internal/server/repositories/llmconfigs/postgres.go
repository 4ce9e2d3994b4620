// Package llmconfigs provides a PostgreSQL-backed repository for
// admin-managed LLM provider configurations.
package llmconfigs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

const selectConfig = `SELECT id, name, provider, model_name, api_key, api_base, is_active, max_tokens, temperature, created_at, updated_at FROM llm_configs`

func (r *PostgresRepository) scanConfig(row *sql.Row) (*models.LLMConfig, error) {
	cfg := &models.LLMConfig{}
	err := row.Scan(&cfg.ID, &cfg.Name, &cfg.Provider, &cfg.ModelName,
		&cfg.APIKey, &cfg.APIBase, &cfg.IsActive, &cfg.MaxTokens,
		&cfg.Temperature, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cfg, nil
}

func (r *PostgresRepository) Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	query := `
		INSERT INTO llm_configs (name, provider, model_name, api_key, api_base, is_active, max_tokens, temperature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		cfg.Name, cfg.Provider, cfg.ModelName, cfg.APIKey, cfg.APIBase,
		cfg.IsActive, cfg.MaxTokens, cfg.Temperature).
		Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cfg, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.LLMConfig, error) {
	// id is a uuid column; reject malformed values before they fail
	// the cast as a db error.
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	return r.scanConfig(r.db.QueryRowContext(ctx, selectConfig+` WHERE id = $1`, id))
}

func (r *PostgresRepository) GetActive(ctx context.Context) (*models.LLMConfig, error) {
	query := selectConfig + ` WHERE is_active ORDER BY updated_at DESC LIMIT 1`
	return r.scanConfig(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.LLMConfig, error) {
	rows, err := r.db.QueryContext(ctx, selectConfig+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.LLMConfig
	for rows.Next() {
		var cfg models.LLMConfig
		if err := rows.Scan(&cfg.ID, &cfg.Name, &cfg.Provider, &cfg.ModelName,
			&cfg.APIKey, &cfg.APIBase, &cfg.IsActive, &cfg.MaxTokens,
			&cfg.Temperature, &cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, cfg *models.LLMConfig) error {
	if uuid.Validate(cfg.ID) != nil {
		return common.ErrorNotFound
	}
	query := `
		UPDATE llm_configs
		SET name = $2, provider = $3, model_name = $4, api_key = $5,
		    api_base = $6, max_tokens = $7, temperature = $8, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		cfg.ID, cfg.Name, cfg.Provider, cfg.ModelName, cfg.APIKey,
		cfg.APIBase, cfg.MaxTokens, cfg.Temperature)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE llm_configs SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE llm_configs SET is_active = false, updated_at = now() WHERE is_active`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM llm_configs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
