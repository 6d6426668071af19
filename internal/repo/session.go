package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/joblink-iscim/backend/internal/models"
)

func (r *GormRepo) CreateToken(ctx context.Context, userID uint, tokenHash string) error {
	t := models.AccessToken{
		TokenHash: tokenHash,
		UserID:    userID,
	}
	return r.DB.WithContext(ctx).Create(&t).Error
}

// UserByTokenHash resolves a bearer token fingerprint to its account. The
// caller still has to check IsActive: authority is decided per request, not
// at issuance.
func (r *GormRepo) UserByTokenHash(ctx context.Context, tokenHash string) (*models.User, *models.AccessToken, error) {
	var tok models.AccessToken
	err := r.DB.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&tok).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	user, err := r.UserByID(ctx, tok.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, &tok, nil
}

func (r *GormRepo) TouchToken(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// DeleteToken revokes exactly one session. Deleting a token that is already
// gone is not an error.
func (r *GormRepo) DeleteToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&models.AccessToken{}).Error
}
