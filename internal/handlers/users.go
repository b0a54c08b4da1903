package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/models"
)

type UserHandler struct {
	db       *gorm.DB
	uploader *Uploader
}

func NewUserHandler(db *gorm.DB, uploader *Uploader) *UserHandler {
	return &UserHandler{db: db, uploader: uploader}
}

// Profile returns the logged-in user's page: their posts newest-first and
// follower/following counts computed from the edge rows.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, _ := extractUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var posts []models.Post
	h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&posts)

	var followerCount, followingCount int64
	h.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&followerCount)
	h.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&followingCount)

	c.JSON(http.StatusOK, gin.H{
		"page":      "profile",
		"user":      user,
		"posts":     posts,
		"followers": followerCount,
		"following": followingCount,
	})
}

// ShowEditProfile returns the current profile fields for the edit form.
func (h *UserHandler) ShowEditProfile(c *gin.Context) {
	userID, _ := extractUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "edit_profile", "user": user})
}

// UpdateProfile updates bio and profile image (upload or URL).
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := extractUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input models.UpdateProfileRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "edit_profile", "error": err.Error()})
		return
	}

	if input.Bio != "" {
		user.Bio = input.Bio
	}

	image, err := h.uploader.ResolveImage(c, input.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	if image != "" {
		user.Image = image
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// ToggleFollow follows the target user if not already followed, otherwise
// unfollows. Self-follow is rejected. Delete runs first so the unique
// (follower, following) index closes the insert race.
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	followerID, _ := extractUserID(c)

	targetID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var target models.User
	if err := h.db.First(&target, targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if target.ID == followerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	res := h.db.Where("follower_id = ? AND following_id = ?", followerID, target.ID).Delete(&models.Follow{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	following := false
	if res.RowsAffected == 0 {
		follow := models.Follow{FollowerID: followerID, FollowingID: target.ID}
		if err := h.db.Create(&follow).Error; err != nil {
			// a concurrent request inserted first; the end state is following
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				logrus.WithError(err).Warn("follow insert failed, treating as already following")
			}
		}
		following = true
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}
