package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	EmploymentEmployed     = "employed"
	EmploymentSeeking      = "seeking"
	EmploymentEntrepreneur = "entrepreneur"
	EmploymentOther        = "other"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string     `gorm:"not null"                  json:"name"`
	Email        string     `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string     `gorm:"not null"                  json:"-"`
	Role         string     `gorm:"not null;default:user"     json:"role"`
	IsActive     bool       `gorm:"not null;default:true"     json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	AdminNotes   *string    `json:"admin_notes,omitempty"`

	Course           *string `json:"course"`
	GraduationYear   *int    `json:"graduation_year"`
	EmploymentStatus string  `gorm:"not null;default:seeking" json:"employment_status"`
	Phone            *string `json:"phone"`
	Bio              *string `json:"bio"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AccessToken is one issued session. The plaintext token is never stored,
// only its sha256; deleting the row revokes exactly this session.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenHash  string     `gorm:"uniqueIndex;not null"     json:"-"`
	UserID     uint       `gorm:"index;not null"           json:"user_id"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ValidEmploymentStatus(s string) bool {
	switch s {
	case EmploymentEmployed, EmploymentSeeking, EmploymentEntrepreneur, EmploymentOther:
		return true
	}
	return false
}
