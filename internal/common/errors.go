// Package common defines shared constants and sentinel errors used across
// PawMate components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Account-specific errors.
	ErrorInactiveAccount = errors.New("account disabled")

	// Email verification errors.
	ErrVerificationExpired = errors.New("verification token expired")
	ErrVerificationUsed    = errors.New("verification token already used")

	// Chat-specific errors.
	ErrorNoActiveLLMConfig = errors.New("no active llm config")
)
