package models

import "time"

type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Comment   string    `gorm:"not null" json:"comment"`
	PostID    int       `gorm:"not null" json:"post_id"`
	UserID    int       `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

type CommentRequest struct {
	Comment string `form:"comment" binding:"required"`
}
