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

type AuthHandler struct {
	verifier
}

func NewAuthHandler(db *gorm.DB, sessions *auth.Manager, notifier *notify.Notifier, otpTTL time.Duration) *AuthHandler {
	return &AuthHandler{verifier{db: db, sessions: sessions, notifier: notifier, otpTTL: otpTTL}}
}

// ShowRegister renders the registration page context.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "register"})
}

// Register validates the submission, stashes a pending verification row and
// sends the OTP. No user row is created until the code is verified.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "register", "error": err.Error()})
		return
	}

	if input.Password != input.Confirm {
		c.JSON(http.StatusOK, gin.H{"page": "register", "error": "Passwords do not match"})
		return
	}

	var existing models.User
	if err := h.db.Where("name = ? OR gmail = ?", input.Name, input.Gmail).First(&existing).Error; err == nil {
		msg := "User with this Gmail already exists!"
		if existing.Name == input.Name {
			msg = "Username already exists!"
		}
		c.JSON(http.StatusOK, gin.H{"page": "register", "error": msg})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	pending := models.PendingVerification{
		Token:        uuid.NewString(),
		Purpose:      models.PurposeRegister,
		Name:         input.Name,
		Gmail:        input.Gmail,
		PasswordHash: string(hashed),
		Phone:        input.Phone,
		Code:         notify.GenerateCode(),
		ExpiresAt:    time.Now().Add(h.otpTTL),
	}

	if err := h.db.Create(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start verification"})
		return
	}

	if err := h.setVerifyCookie(c, pending.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start verification"})
		return
	}

	h.notifier.SendCode(pending.Gmail, pending.Phone, pending.Code)

	c.JSON(http.StatusOK, gin.H{"page": "verify_otp"})
}

// VerifyOTP checks the submitted code against the pending row. A match
// persists the account; a mismatch keeps the pending state for a retry.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input models.VerifyOTPRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "verify_otp", "error": "OTP is required"})
		return
	}

	pending, ok := h.loadPending(c, models.PurposeRegister)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"page": "register", "error": "Verification session expired. Please register again."})
		return
	}

	if input.OTP != pending.Code {
		c.JSON(http.StatusOK, gin.H{"page": "verify_otp", "error": "Invalid OTP! Try again."})
		return
	}

	user := models.User{
		Name:     pending.Name,
		Gmail:    pending.Gmail,
		Password: pending.PasswordHash,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// name/gmail was taken while the code was in flight
		c.JSON(http.StatusOK, gin.H{"page": "register", "error": "User already exists!"})
		return
	}

	h.db.Delete(&models.PendingVerification{}, "token = ?", pending.Token)
	clearVerifyCookie(c)

	c.Redirect(http.StatusFound, "/login")
}

// ResendOTP regenerates the code for the same pending registration,
// invalidating the previous one.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	h.resend(c, models.PurposeRegister, "verify_otp", "register")
}

// ShowLogin renders the login page context; logged-in users go home.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if h.currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

// Login checks credentials and establishes the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.currentUser(c) != nil {
		c.JSON(http.StatusOK, gin.H{"page": "home", "error": "User is already logged-in"})
		return
	}

	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "login", "error": "Invalid email or password"})
		return
	}

	var user models.User
	if err := h.db.Where("gmail = ?", input.Gmail).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "login", "error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "login", "error": "Invalid email or password"})
		return
	}

	token, err := h.sessions.IssueSession(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetCookie(auth.SessionCookie, token, int((72 * time.Hour).Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears all session state unconditionally.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	clearVerifyCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

// currentUser resolves the session cookie to a live user row, or nil.
func (h *AuthHandler) currentUser(c *gin.Context) *models.User {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie == "" {
		return nil
	}
	claims, err := h.sessions.ParseSession(cookie)
	if err != nil {
		return nil
	}
	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}
