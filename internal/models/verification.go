package models

import "time"

// Verification purposes.
const (
	PurposeRegister      = "register"
	PurposeResetPassword = "reset_password"
)

// PendingVerification holds in-flight OTP state server-side. The client
// carries only the Token, inside a signed cookie. A row is consumed on
// successful verification (register) or after the password is reset.
type PendingVerification struct {
	Token        string    `gorm:"primaryKey;size:36" json:"token"`
	Purpose      string    `gorm:"not null;index" json:"purpose"`
	Name         string    `json:"name"`
	Gmail        string    `gorm:"not null;index" json:"gmail"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"-"`
	Code         string    `gorm:"not null" json:"-"`
	Verified     bool      `gorm:"default:false" json:"verified"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the code can no longer be used.
func (p *PendingVerification) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
