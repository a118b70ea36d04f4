package models

import (
	"strings"
	"time"
)

type User struct {
	BaseModel
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	Role                UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive            bool       `gorm:"not null;default:true" json:"isActive"`
	LastLogin           *time.Time `json:"lastLogin,omitempty"`
	ResetPasswordToken  *string    `gorm:"index" json:"-"`
	ResetPasswordExpiry *time.Time `json:"-"`
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultName - часть email до "@"
func DefaultName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// Public - то, что можно отдать клиенту в ответе на логин
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
