package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/auth"
	"github.com/blogverse/backend/internal/config"
	"github.com/blogverse/backend/internal/notify"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Password *PasswordHandler
	Post     *PostHandler
	Comment  *CommentHandler
	User     *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config, sessions *auth.Manager, notifier *notify.Notifier) *Handler {
	uploader := NewUploader(cfg.UploadDir)

	return &Handler{
		Auth:     NewAuthHandler(db, sessions, notifier, cfg.OTPTTL),
		Password: NewPasswordHandler(db, sessions, notifier, cfg.OTPTTL),
		Post:     NewPostHandler(db, uploader),
		Comment:  NewCommentHandler(db),
		User:     NewUserHandler(db, uploader),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// forbidden writes the bare ownership-violation response.
func forbidden(c *gin.Context) {
	c.String(http.StatusForbidden, "Unauthorized")
	c.Abort()
}

// paramID parses the numeric :id path segment. A non-numeric value never
// reaches the database and is treated the same as a missing entity.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}
