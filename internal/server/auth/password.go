package auth

import (
	"strings"
	"unicode"

	"github.com/pawmate/pawmate/internal/common"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy: at least
// 8 characters, not entirely numeric, and not equal to the username.
func ValidatePassword(password, username string) error {
	if len(password) < minPasswordLength {
		return common.ErrorValidation
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return common.ErrorValidation
	}
	if username != "" && strings.EqualFold(password, username) {
		return common.ErrorValidation
	}
	return nil
}
