package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joblink-iscim/backend/internal/models"
)

// CreateUser inserts a new account. The unique index on email is the real
// uniqueness guard; a lost race comes back as ErrDuplicateEmail just like a
// plain duplicate does.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertSocialUser creates the account or, if the email is already bound,
// re-asserts only name and credential. Role, active flag, admin notes and
// profile fields of an existing account stay untouched. The conflict clause
// keeps concurrent identical claims from racing the lookup.
func (r *GormRepo) UpsertSocialUser(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = NormalizeEmail(u.Email)
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return nil, err
	}
	// Reload: on the update path the received struct carries the claim's
	// defaults, not the stored role/active/profile state.
	return r.UserByEmail(ctx, u.Email)
}

func (r *GormRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) ListUsers(ctx context.Context, role string, active *bool) ([]models.User, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{}).Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountActiveAdmins backs the last-administrator lockout guard.
func (r *GormRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Count(&n).Error
	return n, err
}

type UserCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Admins   int64 `json:"admins"`
	Inactive int64 `json:"inactive"`
}

func (r *GormRepo) CountUsers(ctx context.Context) (*UserCounts, error) {
	var c UserCounts
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&c.Total).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_active = ?", true).Count(&c.Active).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).Count(&c.Admins).Error; err != nil {
		return nil, err
	}
	c.Inactive = c.Total - c.Active
	return &c, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
