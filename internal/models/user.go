package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"unique;not null" json:"name"`
	Gmail    string `gorm:"unique;not null" json:"gmail"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `json:"bio"`
	Image    string `json:"image"` // stored upload path or external URL

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name     string `form:"name" binding:"required"`
	Gmail    string `form:"gmail" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Confirm  string `form:"confirm" binding:"required"`
	Phone    string `form:"phone"` // optional, enables the SMS channel
}

type LoginRequest struct {
	Gmail    string `form:"gmail" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type VerifyOTPRequest struct {
	OTP string `form:"otp" binding:"required"`
}

type ForgotPasswordRequest struct {
	Gmail string `form:"gmail" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `form:"password" binding:"required"`
	Confirm  string `form:"confirm" binding:"required"`
}

type UpdateProfileRequest struct {
	Bio      string `form:"bio"`
	ImageURL string `form:"image_url"`
}
