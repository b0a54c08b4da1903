package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/auth"
	"github.com/blogverse/backend/internal/models"
)

// RequireAuth redirects unauthenticated clients to the login page before
// any protected handler runs. A session whose user row no longer exists is
// invalidated on the spot.
func RequireAuth(sessions *auth.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(auth.SessionCookie)
		if err != nil || cookie == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := sessions.ParseSession(cookie)
		if err != nil {
			clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_name", user.Name)
		c.Set("user_gmail", user.Gmail)
		c.Next()
	}
}

// OptionalAuth sets the user context when a valid session is present but
// lets anonymous requests through. Used by the public feed.
func OptionalAuth(sessions *auth.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(auth.SessionCookie)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := sessions.ParseSession(cookie)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_name", user.Name)
		c.Set("user_gmail", user.Gmail)
		c.Next()
	}
}

func clearSession(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
}
