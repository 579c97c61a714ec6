package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPurpose separates verification links from session tokens so one
// can never be replayed as the other.
type TokenPurpose string

const (
	PurposeVerifyEmail TokenPurpose = "verify_email"
	PurposeSession     TokenPurpose = "session"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"purpose"`
	UserID  uuid.UUID    `json:"user_id"`
	Role    model.Role   `json:"role"`
	Email   string       `json:"email,omitempty"` // Session only
}

// TokenService issues and verifies stateless HMAC-signed tokens.
type TokenService struct {
	secret          []byte
	previous        [][]byte
	verificationTTL time.Duration
	sessionTTL      time.Duration
	now             func() time.Time
}

// NewTokenService creates a TokenService. Tokens are signed with secret;
// previous secrets are accepted on verify only.
func NewTokenService(secret string, previous []string, verificationTTL, sessionTTL time.Duration) *TokenService {
	prev := make([][]byte, 0, len(previous))
	for _, p := range previous {
		prev = append(prev, []byte(p))
	}
	return &TokenService{
		secret:          []byte(secret),
		previous:        prev,
		verificationTTL: verificationTTL,
		sessionTTL:      sessionTTL,
		now:             time.Now,
	}
}

// SessionTTL returns how long issued session tokens stay valid.
func (s *TokenService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Issue signs a token for the given identity, purpose and lifetime.
func (s *TokenService) Issue(userID uuid.UUID, role model.Role, email string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
		UserID:  userID,
		Role:    role,
		Email:   email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueVerification issues a verification token scoped to (userID, role).
func (s *TokenService) IssueVerification(userID uuid.UUID, role model.Role) (string, error) {
	return s.Issue(userID, role, "", PurposeVerifyEmail, s.verificationTTL)
}

// IssueSession issues a session token for an authenticated account.
func (s *TokenService) IssueSession(a *model.Account) (string, error) {
	return s.Issue(a.ID, a.Role, a.Email, PurposeSession, s.sessionTTL)
}

// Verify checks signature, expiry and purpose in one step. Any failure is
// reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string, purpose TokenPurpose) (*Claims, error) {
	var lastErr error
	for _, key := range s.keys() {
		claims, err := s.parse(tokenStr, key)
		if err == nil {
			if claims.Purpose != purpose {
				return nil, fmt.Errorf("%w: purpose %q, want %q", ErrInvalidToken, claims.Purpose, purpose)
			}
			return claims, nil
		}
		lastErr = err
		// Only a signature mismatch is worth retrying with an older key.
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidToken, lastErr)
}

func (s *TokenService) keys() [][]byte {
	return append([][]byte{s.secret}, s.previous...)
}

func (s *TokenService) parse(tokenStr string, key []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
