package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

type GormRepo struct {
	DB *gorm.DB
}
