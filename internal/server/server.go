package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/auth"
	"github.com/blogverse/backend/internal/config"
	"github.com/blogverse/backend/internal/database"
	"github.com/blogverse/backend/internal/handlers"
	"github.com/blogverse/backend/internal/middleware"
	"github.com/blogverse/backend/internal/notify"
)

// New wires config, database, notifier and routes into an http.Server.
func New(cfg *config.Config) (*http.Server, database.Service, error) {
	db, err := database.New(cfg.DB)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, nil, err
	}

	notifier := notify.New(cfg)
	router := NewRouter(cfg, db.GetDB(), notifier, db.Health)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logrus.WithField("port", cfg.Port).Info("server starting")

	return srv, db, nil
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(cfg *config.Config, db *gorm.DB, notifier *notify.Notifier, health func() map[string]string) *gin.Engine {
	sessions := auth.NewManager(cfg.JWTSecret)
	handler := handlers.NewHandler(db, cfg, sessions, notifier)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	r.Use(metricsMiddleware())

	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if health != nil {
			status["database"] = health()
		}
		c.JSON(http.StatusOK, status)
	})
	r.GET("/metrics", metricsHandler())

	requireAuth := middleware.RequireAuth(sessions, db)
	optionalAuth := middleware.OptionalAuth(sessions, db)

	// OTP issuance is throttled per client IP
	otpLimiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 10)
	throttled := middleware.RateLimit(otpLimiter)

	r.GET("/", optionalAuth, handler.Post.Feed)
	r.GET("/blog/:id", optionalAuth, handler.Post.ShowBlog)

	r.GET("/register", handler.Auth.ShowRegister)
	r.POST("/register", throttled, handler.Auth.Register)
	r.POST("/verify_otp", handler.Auth.VerifyOTP)
	r.GET("/resend_otp", throttled, handler.Auth.ResendOTP)
	r.GET("/login", handler.Auth.ShowLogin)
	r.POST("/login", handler.Auth.Login)

	r.GET("/forgot_password", handler.Password.ShowForgotPassword)
	r.POST("/forgot_password", throttled, handler.Password.ForgotPassword)
	r.POST("/verify_fp_otp", handler.Password.VerifyOTP)
	r.GET("/resend_fp_otp", throttled, handler.Password.ResendOTP)
	r.POST("/reset_password", handler.Password.ResetPassword)

	protected := r.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/profile", handler.User.Profile)
		protected.GET("/edit_profile", handler.User.ShowEditProfile)
		protected.POST("/update_profile", handler.User.UpdateProfile)

		protected.GET("/add_blog", handler.Post.ShowAddBlog)
		protected.POST("/add_blog", handler.Post.AddBlog)
		protected.GET("/edit_blog/:id", handler.Post.ShowEditBlog)
		protected.POST("/update_blog/:id", handler.Post.UpdateBlog)
		protected.POST("/delete_blog/:id", handler.Post.DeleteBlog)
		protected.GET("/like/:id", handler.Post.ToggleLike)

		protected.POST("/comment/:id", handler.Comment.AddComment)
		protected.GET("/edit_comment/:id", handler.Comment.ShowEditComment)
		protected.POST("/update_comment/:id", handler.Comment.UpdateComment)
		protected.POST("/delete_comment/:id", handler.Comment.DeleteComment)

		protected.POST("/follow/:id", handler.User.ToggleFollow)

		protected.POST("/logout", handler.Auth.Logout)
	}

	return r
}
