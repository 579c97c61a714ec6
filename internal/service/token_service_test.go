package service

import (
	"testing"
	"time"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(secret string, previous ...string) *TokenService {
	return NewTokenService(secret, previous, time.Hour, 7*24*time.Hour)
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := newTestTokens("current-secret")
	id := uuid.New()

	for _, role := range model.Roles {
		t.Run(string(role), func(t *testing.T) {
			tok, err := tokens.IssueVerification(id, role)
			require.NoError(t, err)

			claims, err := tokens.Verify(tok, PurposeVerifyEmail)
			require.NoError(t, err)
			assert.Equal(t, id, claims.UserID)
			assert.Equal(t, role, claims.Role)
		})
	}
}

func TestTokenService_Expiry(t *testing.T) {
	tokens := newTestTokens("current-secret")
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issuedAt }

	tok, err := tokens.IssueVerification(uuid.New(), model.RoleTutor)
	require.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = tokens.Verify(tok, PurposeVerifyEmail)
	assert.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = tokens.Verify(tok, PurposeVerifyEmail)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_SessionCarriesEmail(t *testing.T) {
	tokens := newTestTokens("current-secret")
	a := &model.Account{ID: uuid.New(), Role: model.RoleStudent, Email: "s@x.com"}

	tok, err := tokens.IssueSession(a)
	require.NoError(t, err)

	claims, err := tokens.Verify(tok, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.UserID)
	assert.Equal(t, "s@x.com", claims.Email)
	assert.Equal(t, model.RoleStudent, claims.Role)
}

func TestTokenService_Rejects(t *testing.T) {
	tokens := newTestTokens("current-secret")
	verifyTok, err := tokens.IssueVerification(uuid.New(), model.RoleTutor)
	require.NoError(t, err)
	foreign, err := newTestTokens("other-secret").IssueVerification(uuid.New(), model.RoleTutor)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		purpose TokenPurpose
	}{
		{"wrong purpose", verifyTok, PurposeSession},
		{"tampered", verifyTok + "x", PurposeVerifyEmail},
		{"unknown secret", foreign, PurposeVerifyEmail},
		{"garbage", "not-a-token", PurposeVerifyEmail},
		{"empty", "", PurposeVerifyEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token, tt.purpose)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenService_PreviousSecret(t *testing.T) {
	old := newTestTokens("old-secret")
	tok, err := old.IssueVerification(uuid.New(), model.RoleStudent)
	require.NoError(t, err)

	rotated := newTestTokens("new-secret", "old-secret")
	_, err = rotated.Verify(tok, PurposeVerifyEmail)
	assert.NoError(t, err)

	dropped := newTestTokens("new-secret")
	_, err = dropped.Verify(tok, PurposeVerifyEmail)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
