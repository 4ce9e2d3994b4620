// Package services contains server-side business logic. This file implements
// UserService: registration, login, token refresh, email verification, and
// profile management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/logging"
	"github.com/pawmate/pawmate/internal/server/auth"
	"github.com/pawmate/pawmate/internal/server/config"
	mailer "github.com/pawmate/pawmate/internal/server/mail"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Account bundles a user with their profile for API responses.
type Account struct {
	User    *models.User
	Profile *models.Profile
}

// RegisterParams is the input to UserService.Register.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Bio       *string
	BirthDate *time.Time
	Gender    *string
}

// UserService provides account operations: registration with email
// verification, credential login, token rotation, and profile management.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	logger      logging.Logger

	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	emailTokenValidityDuration   time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, ml mailer.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       ml,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		emailTokenValidityDuration:   cfg.EmailTokenValidityDuration,
	}
}

// Register creates a user with their profile and a pending email
// verification, issues the first token pair, all in one transaction, then
// mails the verification link. Mail delivery is best-effort: a failed send
// does not undo registration.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*Account, *TokenPair, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Username == "" || p.Email == "" {
		return nil, nil, common.ErrorValidation
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, nil, common.ErrorValidation
	}
	if err := auth.ValidatePassword(p.Password, p.Username); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	var account *Account
	var pair *TokenPair
	var verification *models.EmailVerification
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Username:     p.Username,
			Email:        p.Email,
			PasswordHash: hash,
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			IsActive:     true,
		})
		if err != nil {
			return err
		}
		profile, err := s.repomanager.Profiles(tx).Create(ctx, user.ID)
		if err != nil {
			return err
		}
		if p.Phone != "" {
			profile.Phone = &p.Phone
			if err := s.repomanager.Profiles(tx).Update(ctx, profile); err != nil {
				return err
			}
		}
		verification, err = s.repomanager.EmailVerifications(tx).Create(ctx, user.ID, s.emailTokenValidityDuration)
		if err != nil {
			return err
		}
		pair, err = s.generateTokenPair(ctx, user, tx)
		if err != nil {
			return err
		}
		account = &Account{User: user, Profile: profile}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, common.ErrorAlreadyExists
		}
		if errors.Is(err, common.ErrorInternal) {
			return nil, nil, common.ErrorInternal
		}
		return nil, nil, fmt.Errorf("error registering user: %w", err)
	}

	if err := s.mailer.SendVerification(account.User.Email, verification.Token); err != nil {
		s.logger.Warn(ctx, "verification mail not sent", "user_id", account.User.ID, "error", err)
	}
	return account, pair, nil
}

// Login verifies credentials and, on success, records the login and returns
// a new TokenPair. The login field accepts a username or an email address.
func (s *UserService) Login(ctx context.Context, login, password, clientIP string) (*models.User, *TokenPair, error) {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, nil, common.ErrorInactiveAccount
	}

	if err := s.repomanager.Profiles(s.db).RecordLogin(ctx, user.ID, clientIP); err != nil {
		s.logger.Warn(ctx, "login not recorded", "user_id", user.ID, "error", err)
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout invalidates the given refresh token. Unknown tokens are treated as
// already logged out.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.IsExpired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorInactiveAccount
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// VerifyEmail redeems the mailed token and marks the profile verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := s.repomanager.EmailVerifications(s.db).Find(ctx, token)
	if err != nil {
		return err
	}
	if verification.Used {
		return common.ErrVerificationUsed
	}
	if !verification.IsValid(time.Now()) {
		return common.ErrVerificationExpired
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.EmailVerifications(tx).MarkUsed(ctx, token); err != nil {
			return err
		}
		return s.repomanager.Profiles(tx).MarkEmailVerified(ctx, verification.UserID)
	})
}

// GetAccount returns the user along with their profile.
func (s *UserService) GetAccount(ctx context.Context, userID string) (*Account, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Account{User: user, Profile: profile}, nil
}

// UpdateAccount applies the user-editable fields and returns the result.
func (s *UserService) UpdateAccount(ctx context.Context, userID string, upd ProfileUpdate) (*Account, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if upd.FirstName != nil || upd.LastName != nil {
			first, last := account.User.FirstName, account.User.LastName
			if upd.FirstName != nil {
				first = *upd.FirstName
			}
			if upd.LastName != nil {
				last = *upd.LastName
			}
			if err := s.repomanager.Users(tx).UpdateNames(ctx, userID, first, last); err != nil {
				return err
			}
		}

		profile := *account.Profile
		if upd.Phone != nil {
			if *upd.Phone == "" {
				profile.Phone = nil
			} else {
				profile.Phone = upd.Phone
			}
		}
		if upd.Bio != nil {
			profile.Bio = *upd.Bio
		}
		if upd.BirthDate != nil {
			profile.BirthDate = upd.BirthDate
		}
		if upd.Gender != nil {
			profile.Gender = *upd.Gender
		}
		return s.repomanager.Profiles(tx).Update(ctx, &profile)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return s.GetAccount(ctx, userID)
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrorUnauthorized
	}
	if err := auth.ValidatePassword(newPassword, user.Username); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	// Revoking refresh tokens forces other devices to log in again.
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteAllForUser(ctx, userID)
	})
}

// ListUsers returns all users. Admin only; enforced at the HTTP layer.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// DeleteUser removes a user and, via foreign keys, their profile, tokens,
// and chat history.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.repomanager.Users(s.db).Delete(ctx, userID)
}

// --- helpers below ---

func (s *UserService) findByLogin(ctx context.Context, login string) (*models.User, error) {
	if strings.Contains(login, "@") {
		user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.ToLower(login))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}
	return s.repomanager.Users(s.db).GetByUsername(ctx, login)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
