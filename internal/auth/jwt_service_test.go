package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Nanosecond)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_DefaultExpiry(t *testing.T) {
	svc := NewJWTService("test-secret", 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())
}
