package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/models"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// AddComment attaches a comment to the client-supplied post id. The post
// is not verified to exist.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, _ := extractUserID(c)

	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBind(&input); err != nil {
		// an empty comment is silently dropped
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	comment := models.Comment{
		Comment: input.Comment,
		PostID:  postID,
		UserID:  userID,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// ShowEditComment returns the comment for editing; owner only.
func (h *CommentHandler) ShowEditComment(c *gin.Context) {
	userID, _ := extractUserID(c)

	commentID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.UserID != userID {
		forbidden(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "edit_comment", "comment": comment})
}

// UpdateComment rewrites the comment text; owner only.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, _ := extractUserID(c)

	commentID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.UserID != userID {
		forbidden(c)
		return
	}

	var input models.CommentRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "edit_comment", "error": "Comment text is required"})
		return
	}

	comment.Comment = input.Comment
	if err := h.db.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// DeleteComment removes a comment; owner only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, _ := extractUserID(c)

	commentID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	if comment.UserID != userID {
		forbidden(c)
		return
	}

	if err := h.db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}
