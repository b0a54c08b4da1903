package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/auth"
	"github.com/blogverse/backend/internal/models"
	"github.com/blogverse/backend/internal/notify"
)

// verifier is the shared OTP plumbing used by both the registration and
// the password-reset flows.
type verifier struct {
	db       *gorm.DB
	sessions *auth.Manager
	notifier *notify.Notifier
	otpTTL   time.Duration
}

func (v *verifier) setVerifyCookie(c *gin.Context, correlationToken string) error {
	signed, err := v.sessions.IssueVerifyToken(correlationToken, v.otpTTL)
	if err != nil {
		return err
	}
	c.SetCookie(auth.VerifyCookie, signed, int(v.otpTTL.Seconds()), "/", "", false, true)
	return nil
}

func clearVerifyCookie(c *gin.Context) {
	c.SetCookie(auth.VerifyCookie, "", -1, "/", "", false, true)
}

// loadPending resolves the signed verification cookie to a live,
// unexpired pending row of the given purpose.
func (v *verifier) loadPending(c *gin.Context, purpose string) (*models.PendingVerification, bool) {
	cookie, err := c.Cookie(auth.VerifyCookie)
	if err != nil || cookie == "" {
		return nil, false
	}

	token, err := v.sessions.ParseVerifyToken(cookie)
	if err != nil {
		return nil, false
	}

	var pending models.PendingVerification
	if err := v.db.Where("token = ? AND purpose = ?", token, purpose).First(&pending).Error; err != nil {
		return nil, false
	}

	if pending.Expired(time.Now()) {
		v.db.Delete(&models.PendingVerification{}, "token = ?", pending.Token)
		clearVerifyCookie(c)
		return nil, false
	}

	return &pending, true
}

// resend overwrites the pending code and pushes the expiry forward. The
// old code no longer verifies after this.
func (v *verifier) resend(c *gin.Context, purpose, page, expiredPage string) {
	pending, ok := v.loadPending(c, purpose)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"page": expiredPage, "error": "Verification session expired"})
		return
	}

	pending.Code = notify.GenerateCode()
	pending.Verified = false
	pending.ExpiresAt = time.Now().Add(v.otpTTL)

	if err := v.db.Save(pending).Error; err != nil {
		logrus.WithError(err).Error("failed to refresh pending verification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend OTP"})
		return
	}

	// keep the cookie lifetime in step with the new expiry
	if err := v.setVerifyCookie(c, pending.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend OTP"})
		return
	}

	v.notifier.SendCode(pending.Gmail, pending.Phone, pending.Code)

	c.JSON(http.StatusOK, gin.H{"page": page, "message": "A new OTP has been sent"})
}
