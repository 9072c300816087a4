package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// ID, CreatedAt and UpdatedAt are owned by the store and filled in on write.
type User struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	City        string
	Country     string
	PostalCode  string
	Role        UserRole
	Status      UserStatus
	Bio         string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// FullName joins first and last name for display purposes.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
