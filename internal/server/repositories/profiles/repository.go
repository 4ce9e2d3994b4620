package profiles

import (
	"context"

	"github.com/pawmate/pawmate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	SetAvatarKey(ctx context.Context, userID, key string) error
	MarkEmailVerified(ctx context.Context, userID string) error
	RecordLogin(ctx context.Context, userID, ip string) error
}
