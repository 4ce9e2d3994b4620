package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/repositories/repomanager"
)

// LLMConfigService manages the admin-facing catalog of chat-completion
// configurations. API keys are stored as provided but always redacted on the
// way out.
type LLMConfigService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLLMConfigService(db *sql.DB, m repomanager.RepositoryManager) *LLMConfigService {
	return &LLMConfigService{db: db, repomanager: m}
}

// MaskAPIKey hides all but the last four characters of a key.
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func validateConfig(cfg *models.LLMConfig) error {
	if strings.TrimSpace(cfg.Name) == "" || strings.TrimSpace(cfg.ModelName) == "" {
		return common.ErrorValidation
	}
	switch cfg.Provider {
	case models.ProviderOpenAI, models.ProviderAzure, models.ProviderAnthropic,
		models.ProviderLocal, models.ProviderOther:
	default:
		return common.ErrorValidation
	}
	if cfg.MaxTokens < 0 || cfg.Temperature < 0 || cfg.Temperature > 2 {
		return common.ErrorValidation
	}
	return nil
}

// Create stores a configuration. When it is created active, every other
// configuration is deactivated in the same transaction.
func (s *LLMConfigService) Create(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	var created *models.LLMConfig
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.LLMConfigs(tx)
		if cfg.IsActive {
			if err := repo.DeactivateAll(ctx); err != nil {
				return err
			}
		}
		var err error
		created, err = repo.Create(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one configuration by id.
func (s *LLMConfigService) Get(ctx context.Context, id string) (*models.LLMConfig, error) {
	return s.repomanager.LLMConfigs(s.db).GetByID(ctx, id)
}

// List returns all configurations, newest first.
func (s *LLMConfigService) List(ctx context.Context) ([]models.LLMConfig, error) {
	return s.repomanager.LLMConfigs(s.db).List(ctx)
}

// Update replaces a configuration's mutable fields. An empty APIKey keeps
// the stored key, so admins can edit configs without re-entering secrets.
func (s *LLMConfigService) Update(ctx context.Context, cfg *models.LLMConfig) (*models.LLMConfig, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	current, err := s.repomanager.LLMConfigs(s.db).GetByID(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = current.APIKey
	}
	if err := s.repomanager.LLMConfigs(s.db).Update(ctx, cfg); err != nil {
		return nil, err
	}
	return s.repomanager.LLMConfigs(s.db).GetByID(ctx, cfg.ID)
}

// Activate makes the given configuration the single active one.
func (s *LLMConfigService) Activate(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.LLMConfigs(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := repo.DeactivateAll(ctx); err != nil {
			return err
		}
		return repo.SetActive(ctx, id, true)
	})
}

// Deactivate turns a configuration off. Chat falls back to the environment
// configuration, if any, until another one is activated.
func (s *LLMConfigService) Deactivate(ctx context.Context, id string) error {
	return s.repomanager.LLMConfigs(s.db).SetActive(ctx, id, false)
}

// Delete removes a configuration.
func (s *LLMConfigService) Delete(ctx context.Context, id string) error {
	return s.repomanager.LLMConfigs(s.db).Delete(ctx, id)
}
