package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/auth"
	"github.com/blogverse/backend/internal/models"
	"github.com/blogverse/backend/internal/notify"
)

// PasswordHandler runs the forgot-password OTP flow. It mirrors the
// registration flow with its own pending rows scoped to an existing
// account's email.
type PasswordHandler struct {
	verifier
}

func NewPasswordHandler(db *gorm.DB, sessions *auth.Manager, notifier *notify.Notifier, otpTTL time.Duration) *PasswordHandler {
	return &PasswordHandler{verifier{db: db, sessions: sessions, notifier: notifier, otpTTL: otpTTL}}
}

// ShowForgotPassword renders the forgot-password page context.
func (h *PasswordHandler) ShowForgotPassword(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "forgot_password"})
}

// ForgotPassword verifies the email belongs to an account and sends a
// reset code.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var input models.ForgotPasswordRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "forgot_password", "error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Where("gmail = ?", input.Gmail).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "forgot_password", "error": "Email not registered"})
		return
	}

	pending := models.PendingVerification{
		Token:     uuid.NewString(),
		Purpose:   models.PurposeResetPassword,
		Gmail:     user.Gmail,
		Code:      notify.GenerateCode(),
		ExpiresAt: time.Now().Add(h.otpTTL),
	}

	if err := h.db.Create(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start verification"})
		return
	}

	if err := h.setVerifyCookie(c, pending.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start verification"})
		return
	}

	h.notifier.SendCode(pending.Gmail, "", pending.Code)

	c.JSON(http.StatusOK, gin.H{"page": "verify_fp_otp"})
}

// VerifyOTP marks the pending row verified so the reset form can be
// submitted. The row is kept until the password is actually reset.
func (h *PasswordHandler) VerifyOTP(c *gin.Context) {
	var input models.VerifyOTPRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "verify_fp_otp", "error": "OTP is required"})
		return
	}

	pending, ok := h.loadPending(c, models.PurposeResetPassword)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"page": "forgot_password", "error": "Verification session expired"})
		return
	}

	if input.OTP != pending.Code {
		c.JSON(http.StatusOK, gin.H{"page": "verify_fp_otp", "error": "Invalid OTP"})
		return
	}

	pending.Verified = true
	if err := h.db.Save(pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "reset_password"})
}

// ResendOTP regenerates the reset code, invalidating the previous one.
func (h *PasswordHandler) ResendOTP(c *gin.Context) {
	h.resend(c, models.PurposeResetPassword, "verify_fp_otp", "forgot_password")
}

// ResetPassword overwrites the account password once the code has been
// verified.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var input models.ResetPasswordRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "reset_password", "error": err.Error()})
		return
	}

	if input.Password != input.Confirm {
		c.JSON(http.StatusOK, gin.H{"page": "reset_password", "error": "Passwords do not match"})
		return
	}

	pending, ok := h.loadPending(c, models.PurposeResetPassword)
	if !ok || !pending.Verified {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	var user models.User
	if err := h.db.Where("gmail = ?", pending.Gmail).First(&user).Error; err != nil {
		h.db.Delete(&models.PendingVerification{}, "token = ?", pending.Token)
		clearVerifyCookie(c)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user.Password = string(hashed)
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	h.db.Delete(&models.PendingVerification{}, "token = ?", pending.Token)
	clearVerifyCookie(c)

	c.Redirect(http.StatusFound, "/login")
}
