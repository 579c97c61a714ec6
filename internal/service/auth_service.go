package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlsms/dlsms-backend/internal/metrics"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/notifier"
	"github.com/dlsms/dlsms-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AccountStore is the credential store used by the auth workflows.
// Lookups return (nil, nil) when nothing matches.
type AccountStore interface {
	FindByEmail(ctx context.Context, role model.Role, email string) (*model.Account, error)
	FindByID(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error)
	Insert(ctx context.Context, a *model.Account) error
	SetVerificationState(ctx context.Context, role model.Role, id uuid.UUID, state model.VerificationState) error
}

// Throttle admits at most one action per key within a window.
type Throttle interface {
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}

// AuthConfig holds the auth workflow settings taken from config.Config.
type AuthConfig struct {
	// AppBaseURL prefixes verification links, e.g. https://api.example.com.
	AppBaseURL     string
	ResendCooldown time.Duration
}

// RegisterInput is the role-specific profile plus credentials of a new account.
type RegisterInput struct {
	Role        model.Role
	FirstName   string
	LastName    string
	Institution string
	StudentID   string
	Email       string
	Password    string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      model.Profile `json:"user"`
}

// AuthService implements registration, email verification and login for
// every account role.
type AuthService struct {
	accounts  AccountStore
	tokens    *TokenService
	hasher    *PasswordHasher
	mailer    notifier.Mailer
	throttle  Throttle
	resendKey func(email string) string
	cfg       AuthConfig
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	accounts AccountStore,
	tokens *TokenService,
	hasher *PasswordHasher,
	mailer notifier.Mailer,
	throttle Throttle,
	resendKey func(email string) string,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		hasher:    hasher,
		mailer:    mailer,
		throttle:  throttle,
		resendKey: resendKey,
		cfg:       cfg,
		log:       log.With().Str("component", "auth_service").Logger(),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and emails its verification link.
// When the email cannot be sent the account is kept in the
// notification_failed state and ErrNotificationFailed is returned; the
// resend workflow recovers from there.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	email := NormalizeEmail(in.Email)

	existing, err := s.findAnyRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		metrics.Registrations.WithLabelValues(string(in.Role), "duplicate").Inc()
		return nil, &DuplicateEmailError{Existing: existing.Role}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		ID:                uuid.New(),
		Role:              in.Role,
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		Institution:       strings.TrimSpace(in.Institution),
		Email:             email,
		PasswordHash:      hash,
		VerificationState: model.VerificationPending,
	}
	if in.Role == model.RoleStudent {
		account.StudentID = strings.TrimSpace(in.StudentID)
	}

	if err := s.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			metrics.Registrations.WithLabelValues(string(in.Role), "duplicate").Inc()
			return nil, &DuplicateEmailError{}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	metrics.Registrations.WithLabelValues(string(in.Role), metrics.OutcomeSuccess).Inc()

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("role", string(account.Role)).
		Msg("Account registered")

	if err := s.sendVerification(ctx, account); err != nil {
		return account, err
	}
	return account, nil
}

// VerifyEmail marks the account named by a verification token as verified.
// A token stays usable until it expires; replaying it on a verified account
// succeeds without changing anything.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.Account, error) {
	claims, err := s.tokens.Verify(token, PurposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	role, err := model.ParseRole(string(claims.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	account, err := s.accounts.FindByID(ctx, role, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if account.Verified() {
		return account, nil
	}

	if err := s.setState(ctx, account, model.VerificationVerified); err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID.String()).Str("role", string(role)).Msg("Email verified")
	return account, nil
}

// ResendVerification emails a fresh verification link to the account with
// the given email. Earlier links stay valid until they expire.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (*model.Account, error) {
	email = NormalizeEmail(email)

	account, err := s.findAnyRole(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if s.throttle != nil && s.cfg.ResendCooldown > 0 {
		ok, err := s.throttle.Allow(ctx, s.resendKey(email), s.cfg.ResendCooldown)
		if err != nil {
			// Fail open: a cache outage must not block account recovery.
			s.log.Warn().Err(err).Msg("Resend throttle unavailable")
		} else if !ok {
			return nil, ErrRateLimited
		}
	}

	if err := s.sendVerification(ctx, account); err != nil {
		return account, err
	}
	return account, nil
}

// Login authenticates an account of the given role. The verified check runs
// only after the password matched.
func (s *AuthService) Login(ctx context.Context, role model.Role, email, password string) (*LoginResult, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return nil, ErrInvalidRole
	}

	account, err := s.accounts.FindByEmail(ctx, role, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		metrics.Logins.WithLabelValues(string(role), metrics.OutcomeFailure).Inc()
		return nil, ErrEmailNotRegistered
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		metrics.Logins.WithLabelValues(string(role), metrics.OutcomeFailure).Inc()
		return nil, ErrAuthFailed
	}

	if !account.Verified() {
		metrics.Logins.WithLabelValues(string(role), "unverified").Inc()
		return nil, ErrNotVerified
	}

	token, err := s.tokens.IssueSession(account)
	if err != nil {
		return nil, err
	}
	metrics.Logins.WithLabelValues(string(role), metrics.OutcomeSuccess).Inc()

	return &LoginResult{
		Token:     token,
		ExpiresAt: s.tokens.now().Add(s.tokens.SessionTTL()),
		User:      account.Profile(),
	}, nil
}

// Profile returns the account for an authenticated principal.
func (s *AuthService) Profile(ctx context.Context, role model.Role, id uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.FindByID(ctx, role, id)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// findAnyRole looks the email up under every role concurrently and returns
// the first match in model.Roles order.
func (s *AuthService) findAnyRole(ctx context.Context, email string) (*model.Account, error) {
	found := make([]*model.Account, len(model.Roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range model.Roles {
		g.Go(func() error {
			a, err := s.accounts.FindByEmail(gctx, role, email)
			if err != nil {
				return fmt.Errorf("find %s by email: %w", role, err)
			}
			found[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range found {
		if a != nil {
			return a, nil
		}
	}
	return nil, nil
}

// sendVerification issues a fresh token, emails the link and records the
// delivery outcome on the account. A verified account keeps its state.
func (s *AuthService) sendVerification(ctx context.Context, a *model.Account) error {
	token, err := s.tokens.IssueVerification(a.ID, a.Role)
	if err != nil {
		return err
	}

	body, err := notifier.RenderVerification(notifier.VerificationEmail{
		FirstName: a.FirstName,
		Role:      string(a.Role),
		Link:      s.VerificationLink(token),
		ExpiresIn: s.tokens.verificationTTL.String(),
	})
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, a.Email, notifier.VerificationSubject, body); err != nil {
		metrics.VerificationEmails.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.log.Error().Err(err).Str("account_id", a.ID.String()).Msg("Verification email failed")
		if !a.Verified() {
			if stateErr := s.setState(ctx, a, model.VerificationNotificationFailed); stateErr != nil {
				s.log.Error().Err(stateErr).Str("account_id", a.ID.String()).Msg("Failed to record notification failure")
			}
		}
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	metrics.VerificationEmails.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if !a.Verified() {
		if err := s.setState(ctx, a, model.VerificationNotified); err != nil {
			return err
		}
	}
	return nil
}

// VerificationLink builds the public URL that verifies an email.
func (s *AuthService) VerificationLink(token string) string {
	return s.cfg.AppBaseURL + "/verify-email/" + token
}

func (s *AuthService) setState(ctx context.Context, a *model.Account, state model.VerificationState) error {
	err := s.accounts.SetVerificationState(ctx, a.Role, a.ID, state)
	if errors.Is(err, repository.ErrAccountMissing) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("set verification state: %w", err)
	}
	a.VerificationState = state
	return nil
}

func validateRegistration(in RegisterInput) error {
	fields := map[string]string{}
	if _, err := model.ParseRole(string(in.Role)); err != nil {
		return ErrInvalidRole
	}
	if strings.TrimSpace(in.Email) == "" {
		fields["email"] = "This field is required"
	}
	if strings.TrimSpace(in.Password) == "" {
		fields["password"] = "This field is required"
	} else if len(in.Password) > MaxPasswordBytes {
		fields["password"] = fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes)
	}
	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = "This field is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["last_name"] = "This field is required"
	}
	if in.Role == model.RoleStudent && strings.TrimSpace(in.StudentID) == "" {
		fields["student_id"] = "This field is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
