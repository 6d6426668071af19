package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/hash"
	"github.com/joblink-iscim/backend/internal/logging"
	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/provider"
	"github.com/joblink-iscim/backend/internal/repo"
	"github.com/joblink-iscim/backend/internal/token"
)

const (
	MinPasswordLen = 8
	maxNameLen     = 255
	maxEmailLen    = 255
)

type AuthService struct {
	Repo      repo.GormRepo
	Producer  *events.Producer
	Providers *provider.Registry
}

// AuthResult pairs the authenticated account with its freshly issued
// plaintext token. The token appears nowhere else.
type AuthResult struct {
	User  *models.User
	Token string
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Course         *string
	GraduationYear *int
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	ve := newValidationError()
	validateName(ve, in.Name)
	validateEmail(ve, in.Email)
	validatePassword(ve, in.Password)
	validateGraduationYear(ve, in.GraduationYear)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     pwHash,
		Role:             models.RoleUser,
		IsActive:         true,
		Course:           in.Course,
		GraduationYear:   in.GraduationYear,
		EmploymentStatus: models.EmploymentSeeking,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			l.Warn("register_failed", "reason", "email_taken")
			return nil, &ValidationError{Fields: map[string]string{
				"email": "The email has already been taken.",
			}}
		}
		l.Error("register_failed", "reason", "db_error", "error", err)
		return nil, err
	}

	plain, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_registered", &user)
	l.Info("register_success", "user_id", user.ID)

	return &AuthResult{User: &user, Token: plain}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	ve := newValidationError()
	validateEmail(ve, email)
	if password == "" {
		ve.add("password", "The password field is required.")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	// Only after a full credential match: a deactivated account must answer
	// differently from a bad password, never reveal more than that.
	return s.finishLogin(ctx, user)
}

// SocialLogin verifies the provider assertion, reconciles the claimed
// identity against the account store and continues exactly as password login
// from the credentials-match point. Calling it twice with the same assertion
// is safe: one account, two valid sessions.
func (s *AuthService) SocialLogin(ctx context.Context, providerName, assertion string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.social", "provider", providerName)

	if providerName == "" || assertion == "" {
		return nil, ErrProviderAssertion
	}

	claim, err := s.Providers.Verify(providerName, assertion)
	if err != nil {
		l.Warn("social_login_failed", "reason", "assertion rejected")
		return nil, ErrProviderAssertion
	}

	pwHash, err := hash.HashPassword(SyntheticCredential(claim))
	if err != nil {
		l.Error("social_login_error", "reason", "cannot hash the credential", "error", err)
		return nil, err
	}

	user, err := s.Repo.UpsertSocialUser(ctx, &models.User{
		Name:             claim.Name,
		Email:            claim.Email,
		PasswordHash:     pwHash,
		Role:             models.RoleUser,
		IsActive:         true,
		EmploymentStatus: models.EmploymentSeeking,
	})
	if err != nil {
		l.Error("social_login_failed", "reason", "db_error", "error", err)
		return nil, err
	}

	s.publish(ctx, "user_social_login", user)
	return s.finishLogin(ctx, user)
}

// finishLogin is the shared tail of every authentication path: active check,
// last-login stamp, token issuance.
func (s *AuthService) finishLogin(ctx context.Context, user *models.User) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "user_id", user.ID)

	if !user.IsActive {
		l.Warn("login_failed", "reason", "account deactivated")
		return nil, ErrAccountDeactivated
	}

	now := time.Now().UTC()
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		l.Error("login_failed", "reason", "db_error", "error", err)
		return nil, err
	}
	user.LastLoginAt = &now

	plain, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	l.Info("login_successful")
	return &AuthResult{User: user, Token: plain}, nil
}

// Logout revokes the presented session. Revoking a token that is unknown or
// already revoked succeeds: the caller ends up logged out either way.
func (s *AuthService) Logout(ctx context.Context, plainToken string) error {
	if plainToken == "" {
		return nil
	}
	return s.Repo.DeleteToken(ctx, token.Sha256Hex(plainToken))
}

// CurrentUser resolves a bearer token to its account, re-checking the active
// flag so deactivation cuts off outstanding sessions immediately.
func (s *AuthService) CurrentUser(ctx context.Context, plainToken string) (*models.User, error) {
	if plainToken == "" {
		return nil, ErrUnauthenticated
	}

	user, tok, err := s.Repo.UserByTokenHash(ctx, token.Sha256Hex(plainToken))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	now := time.Now().UTC()
	if err := s.Repo.TouchToken(ctx, tok.ID, now); err != nil {
		logging.FromContext(ctx).Warn("token_touch_failed", "error", err)
	}
	return user, nil
}

func (s *AuthService) issueToken(ctx context.Context, userID uint) (string, error) {
	plain, err := token.New()
	if err != nil {
		return "", err
	}
	if err := s.Repo.CreateToken(ctx, userID, token.Sha256Hex(plain)); err != nil {
		return "", err
	}
	return plain, nil
}

func (s *AuthService) publish(ctx context.Context, kind string, user *models.User) {
	event := map[string]any{
		"type":    kind,
		"user_id": user.ID,
		"email":   user.Email,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "event", kind, "error", err)
	}
}

// SyntheticCredential derives the placeholder password for a social account
// from the provider and its stable subject identifier only, so repeated
// logins with the same identity always produce a matching credential.
func SyntheticCredential(c *provider.Claim) string {
	return "social/" + c.Provider + "/" + c.Subject
}

func validateName(ve *ValidationError, name string) {
	switch {
	case name == "":
		ve.add("name", "The name field is required.")
	case len(name) > maxNameLen:
		ve.add("name", "The name may not be greater than 255 characters.")
	}
}

func validateEmail(ve *ValidationError, email string) {
	switch {
	case email == "":
		ve.add("email", "The email field is required.")
	case len(email) > maxEmailLen:
		ve.add("email", "The email may not be greater than 255 characters.")
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			ve.add("email", "The email must be a valid email address.")
		}
	}
}

func validatePassword(ve *ValidationError, password string) {
	switch {
	case password == "":
		ve.add("password", "The password field is required.")
	case len(password) < MinPasswordLen:
		ve.add("password", "The password must be at least 8 characters.")
	}
}

func validateGraduationYear(ve *ValidationError, year *int) {
	if year == nil {
		return
	}
	max := time.Now().Year() + 10
	if *year < 1900 || *year > max {
		ve.add("graduation_year", "The graduation year is out of range.")
	}
}
