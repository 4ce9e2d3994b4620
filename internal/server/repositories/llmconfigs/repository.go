package llmconfigs

import (
	"context"

	"github.com/pawmate/pawmate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error)
	GetByID(ctx context.Context, id string) (*models.LLMConfig, error)
	// GetActive returns the most recently updated active config.
	GetActive(ctx context.Context) (*models.LLMConfig, error)
	List(ctx context.Context) ([]models.LLMConfig, error)
	Update(ctx context.Context, cfg *models.LLMConfig) error
	SetActive(ctx context.Context, id string, active bool) error
	DeactivateAll(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
