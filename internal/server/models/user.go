package models

import "time"

// User is an account. PasswordHash always holds a bcrypt hash.
// ResetToken and ResetTokenExpires are either both set or both zero.
type User struct {
	ID                string
	UserName          string
	Email             string
	PasswordHash      string
	Role              string
	ResetToken        string
	ResetTokenExpires time.Time
	CreatedAt         time.Time
}

// HasPendingReset reports whether a reset token is outstanding and still
// valid at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != "" && now.Before(u.ResetTokenExpires)
}
