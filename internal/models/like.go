package models

import "time"

// Like is a (user, post) join row. The composite unique index makes the
// like/unlike toggle safe against two concurrent inserts.
type Like struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
