package models

import "time"

type UserRole string

const (
	UserRoleNonAdmin UserRole = "nonadmin"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	ID            int64
	UUID          string
	FirstName     string
	LastName      string
	UserName      string
	Email         string
	Password      string
	Salt          string
	Country       string
	AboutMe       string
	DOB           string
	Role          UserRole
	ContactNumber string
}

func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Session is a time-bounded grant of identity created at sign-in. Rows are
// never removed when a session ends: ExpiresAt and LogoutAt are collapsed to
// the sign-out instant instead.
type Session struct {
	ID          int64
	UUID        string
	User        User
	AccessToken string
	LoginAt     time.Time
	ExpiresAt   time.Time
	LogoutAt    *time.Time
}

// ActiveAt reports whether the session grants identity at the given instant.
func (s Session) ActiveAt(now time.Time) bool {
	if !now.Before(s.ExpiresAt) {
		return false
	}
	if s.LogoutAt != nil && !now.Before(*s.LogoutAt) {
		return false
	}
	return true
}
