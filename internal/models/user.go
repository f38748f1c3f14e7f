package models

import "time"

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

// CanModerate reports whether the role may remove reviews it does not own.
func (r UserRole) CanModerate() bool {
	return r == UserRoleModerator || r == UserRoleAdmin
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an account that can browse, author, delete or report reviews.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Role         UserRole
	Status       UserStatus
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the account may sign in and act on reviews.
func (u User) Active() bool {
	return u.Status == UserStatusActive
}

// Session is one signed-in device. Access tokens name the session so a
// logout on that device revokes them.
type Session struct {
	ID         string
	UserID     string
	DeviceID   string
	DeviceName string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}
