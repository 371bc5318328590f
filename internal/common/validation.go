package common

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: username must be between 3 and 50 characters", ErrValidation)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, and underscores", ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	}
	if len(password) > 100 {
		return fmt.Errorf("%w: password is too long", ErrValidation)
	}
	return nil
}

// ValidatePostText rejects text that is empty after trimming. Posts have no
// upper length bound; the column is TEXT.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: post text cannot be empty", ErrValidation)
	}
	return nil
}

func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment text cannot be empty", ErrValidation)
	}
	return nil
}
