// Package auth implements account credential and username rules.
package auth

import (
	"errors"
	"strings"
)

// Username length bounds.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 31
)

// Username validation errors.
var (
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong  = errors.New("username must be at most 31 characters")
	ErrUsernameCharset  = errors.New("username may only contain letters, digits and underscores")
)

// NormalizeUsername lower-cases and trims a candidate username. The same
// normalization is applied before availability checks and before the value
// is persisted, so uniqueness is effectively case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks a candidate username against the syntactic rules:
// 3-31 characters from [a-zA-Z0-9_]. The input is validated as given;
// callers normalize first.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen {
		return ErrUsernameTooShort
	}
	if len(username) > UsernameMaxLen {
		return ErrUsernameTooLong
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return ErrUsernameCharset
		}
	}
	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}

// ValidTheme reports whether theme is one of the supported preferences.
func ValidTheme(theme string) bool {
	switch theme {
	case "light", "dark", "system":
		return true
	}
	return false
}
