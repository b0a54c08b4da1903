package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/blogverse/backend/internal/models"
)

type PostHandler struct {
	db       *gorm.DB
	uploader *Uploader
}

func NewPostHandler(db *gorm.DB, uploader *Uploader) *PostHandler {
	return &PostHandler{db: db, uploader: uploader}
}

func (h *PostHandler) countLikes(postID int) int {
	var likes int64
	h.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes)
	return int(likes)
}

// Feed returns all posts newest-first. Authenticated users see posts by
// other users, annotated with whether they already follow each author.
func (h *PostHandler) Feed(c *gin.Context) {
	userID, loggedIn := extractUserID(c)

	query := h.db.Preload("User").Order("created_at desc")
	if loggedIn {
		query = query.Where("user_id <> ?", userID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	followed := map[int]bool{}
	if loggedIn {
		var follows []models.Follow
		h.db.Where("follower_id = ?", userID).Find(&follows)
		for _, f := range follows {
			followed[f.FollowingID] = true
		}
	}

	var responses []gin.H
	for _, post := range posts {
		entry := gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"content":    post.Content,
			"image":      post.Image,
			"user_id":    post.UserID,
			"user":       post.User,
			"likes":      h.countLikes(post.ID),
			"created_at": post.CreatedAt,
		}
		if loggedIn {
			entry["author_followed"] = followed[post.UserID]
		}
		responses = append(responses, entry)
	}

	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, gin.H{
		"page":         "first_page",
		"is_logged_in": loggedIn,
		"posts":        responses,
	})
}

// ShowAddBlog renders the add-blog page context.
func (h *PostHandler) ShowAddBlog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "add_blog"})
}

// AddBlog creates a post with an optional image (upload or URL).
func (h *PostHandler) AddBlog(c *gin.Context) {
	userID, _ := extractUserID(c)

	var input models.PostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "add_blog", "error": err.Error()})
		return
	}

	if input.Title == "" || input.Content == "" {
		c.JSON(http.StatusOK, gin.H{"page": "add_blog", "error": "Title and content are required"})
		return
	}

	image, err := h.uploader.ResolveImage(c, input.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	post := models.Post{
		Title:   input.Title,
		Content: input.Content,
		Image:   image,
		UserID:  userID,
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// ShowBlog returns a single post with its comments and like count.
func (h *PostHandler) ShowBlog(c *gin.Context) {
	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var post models.Post
	if err := h.db.Preload("User").Preload("Comments").Preload("Comments.User").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	liked := false
	if userID, ok := extractUserID(c); ok {
		var like models.Like
		liked = h.db.Where("user_id = ? AND post_id = ?", userID, post.ID).First(&like).Error == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "blog",
		"post":  post,
		"likes": h.countLikes(post.ID),
		"liked": liked,
	})
}

// ShowEditBlog returns the post for editing; only the owner may see it.
func (h *PostHandler) ShowEditBlog(c *gin.Context) {
	userID, _ := extractUserID(c)

	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.UserID != userID {
		forbidden(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": "edit_blog", "post": post})
}

// UpdateBlog updates a post's title, content and image; owner only.
func (h *PostHandler) UpdateBlog(c *gin.Context) {
	userID, _ := extractUserID(c)

	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.UserID != userID {
		forbidden(c)
		return
	}

	var input models.PostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"page": "edit_blog", "error": err.Error()})
		return
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Content != "" {
		post.Content = input.Content
	}

	image, err := h.uploader.ResolveImage(c, input.ImageURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	if image != "" {
		post.Image = image
	}

	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// DeleteBlog deletes a post and its comments and likes; owner only.
func (h *PostHandler) DeleteBlog(c *gin.Context) {
	userID, _ := extractUserID(c)

	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.UserID != userID {
		forbidden(c)
		return
	}

	h.db.Where("post_id = ?", post.ID).Delete(&models.Comment{})
	h.db.Where("post_id = ?", post.ID).Delete(&models.Like{})

	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// ToggleLike inserts a like if absent and deletes it if present. Delete
// runs first so the unique (user, post) index closes the insert race.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, _ := extractUserID(c)

	postID, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	res := h.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	liked := false
	if res.RowsAffected == 0 {
		var post models.Post
		if err := h.db.First(&post, postID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}

		like := models.Like{UserID: userID, PostID: post.ID}
		if err := h.db.Create(&like).Error; err != nil {
			// a concurrent request inserted first; the end state is liked
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				logrus.WithError(err).Warn("like insert failed, treating as already liked")
			}
		}
		liked = true
	}

	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
		"likes": h.countLikes(postID),
	})
}
