package service

import (
	"context"

	"github.com/joblink-iscim/backend/internal/logging"
	"github.com/joblink-iscim/backend/internal/models"
	"github.com/joblink-iscim/backend/internal/repo"
)

type ProfileService struct {
	Repo repo.GormRepo
}

// ProfileUpdate carries only the fields an account owner may change.
// Pointers distinguish "leave alone" from "set" for the nullable columns.
type ProfileUpdate struct {
	Name           *string
	Course         *string
	GraduationYear *int
	Phone          *string
	Bio            *string
}

func (s *ProfileService) Update(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "profile.update", "user_id", user.ID)

	ve := newValidationError()
	if in.Name != nil {
		validateName(ve, *in.Name)
	}
	if in.Course != nil && len(*in.Course) > maxNameLen {
		ve.add("course", "The course may not be greater than 255 characters.")
	}
	if in.Phone != nil && len(*in.Phone) > 50 {
		ve.add("phone", "The phone may not be greater than 50 characters.")
	}
	validateGraduationYear(ve, in.GraduationYear)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Course != nil {
		user.Course = in.Course
	}
	if in.GraduationYear != nil {
		user.GraduationYear = in.GraduationYear
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("profile_update_failed", "error", err)
		return nil, err
	}
	l.Info("profile_updated")
	return user, nil
}

func (s *ProfileService) UpdateEmploymentStatus(ctx context.Context, user *models.User, status string) (*models.User, error) {
	if !models.ValidEmploymentStatus(status) {
		return nil, &ValidationError{Fields: map[string]string{
			"employment_status": "The selected employment status is invalid.",
		}}
	}

	user.EmploymentStatus = status
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
