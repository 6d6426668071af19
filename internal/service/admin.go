package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/hash"
	"github.com/joblink-iscim/backend/internal/logging"
	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/repo"
)

type AdminService struct {
	Repo     repo.GormRepo
	Producer *events.Producer
}

// UserPatch is the closed set of fields an administrator may change on
// someone else's account. Anything not named here is not touchable through
// the admin surface.
type UserPatch struct {
	Role       *string
	IsActive   *bool
	AdminNotes *string
}

func (s *AdminService) ListUsers(ctx context.Context, role string, active *bool) ([]models.User, error) {
	if role != "" && role != models.RoleUser && role != models.RoleAdmin {
		return nil, &ValidationError{Fields: map[string]string{
			"role": "The selected role is invalid.",
		}}
	}
	return s.Repo.ListUsers(ctx, role, active)
}

func (s *AdminService) Counts(ctx context.Context) (*repo.UserCounts, error) {
	return s.Repo.CountUsers(ctx)
}

func (s *AdminService) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "admin.update_user", "target_id", id)

	if patch.Role != nil && *patch.Role != models.RoleUser && *patch.Role != models.RoleAdmin {
		return nil, &ValidationError{Fields: map[string]string{
			"role": "The selected role is invalid.",
		}}
	}

	user, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	demoting := patch.Role != nil && *patch.Role != models.RoleAdmin
	deactivating := patch.IsActive != nil && !*patch.IsActive
	if user.IsAdmin() && user.IsActive && (demoting || deactivating) {
		n, err := s.Repo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if n <= 1 {
			l.Warn("admin_update_rejected", "reason", "last active administrator")
			return nil, ErrLastAdmin
		}
	}

	wasActive := user.IsActive
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.AdminNotes != nil {
		user.AdminNotes = patch.AdminNotes
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("admin_update_failed", "error", err)
		return nil, err
	}

	if wasActive && !user.IsActive {
		s.publishDeactivated(ctx, user)
	}
	l.Info("admin_update_success")
	return user, nil
}

// ProvisionAdmin is the out-of-band bootstrap path: creates an administrator
// account directly, rejecting a taken email.
func (s *AdminService) ProvisionAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	ve := newValidationError()
	validateName(ve, name)
	validateEmail(ve, email)
	validatePassword(ve, password)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	notes := "administrator account provisioned via userctl"
	user := models.User{
		Name:             name,
		Email:            email,
		PasswordHash:     pwHash,
		Role:             models.RoleAdmin,
		IsActive:         true,
		AdminNotes:       &notes,
		EmploymentStatus: models.EmploymentSeeking,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, &ValidationError{Fields: map[string]string{
				"email": "The email has already been taken.",
			}}
		}
		return nil, err
	}
	return &user, nil
}

// SetActiveByEmail backs the CLI deactivate/activate commands. Deactivating
// the last active administrator is rejected here too.
func (s *AdminService) SetActiveByEmail(ctx context.Context, email string, active bool) (*models.User, error) {
	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.UpdateUser(ctx, user.ID, UserPatch{IsActive: &active})
}

func (s *AdminService) publishDeactivated(ctx context.Context, user *models.User) {
	event := map[string]any{
		"type":    "user_deactivated",
		"user_id": user.ID,
		"email":   user.Email,
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "event", "user_deactivated", "error", err)
	}
}
