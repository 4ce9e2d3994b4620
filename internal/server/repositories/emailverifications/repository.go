package emailverifications

import (
	"context"
	"time"

	"github.com/pawmate/pawmate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, validity time.Duration) (*models.EmailVerification, error)
	Find(ctx context.Context, token string) (*models.EmailVerification, error)
	MarkUsed(ctx context.Context, token string) error
}
