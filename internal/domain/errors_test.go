package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateEmailMatchesSentinel(t *testing.T) {
	err := DuplicateEmail("john@example.com")

	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.True(t, IsDomainError(err, ErrCodeConflict))
	assert.False(t, IsDomainError(err, ErrCodeNotFound))
	assert.Contains(t, err.Error(), "john@example.com")
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserNotFoundMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", UserNotFound(42))

	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.True(t, IsDomainError(err, ErrCodeNotFound))
	assert.Contains(t, err.Error(), "42")
}

func TestIsDomainErrorPlainError(t *testing.T) {
	assert.False(t, IsDomainError(errors.New("boom"), ErrCodeNotFound))
	assert.False(t, IsDomainError(nil, ErrCodeNotFound))
}
