package models

import (
	"strings"
	"time"
)

const DefaultGender = "female"

// User is a site account. The email is the primary key and the login name.
type User struct {
	Email       string  `gorm:"primaryKey;size:100" json:"email"`
	FirstName   string  `gorm:"size:100;not null" json:"first_name"`
	LastName    *string `gorm:"size:100" json:"last_name,omitempty"`
	Username    *string `gorm:"size:100" json:"username,omitempty"`
	Gender      string  `gorm:"size:100;default:'female'" json:"gender"`
	PhoneNumber string  `gorm:"size:32" json:"phone_number,omitempty"` // E.164, empty when not given
	// Password is a bcrypt hash. Only staff accounts created from the CLI have one.
	Password string `gorm:"size:128" json:"-"`

	IsStaff     bool `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"default:false" json:"is_superuser"`
	IsActive    bool `gorm:"default:true" json:"is_active"`

	DateJoined time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// DisplayName is what pages greet the user with.
func (u *User) DisplayName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

// NormalizeEmail lower-cases the domain part and trims whitespace; the local
// part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
