package models

import "time"

// Follow is a directed edge: follower follows following.
type Follow struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	FollowerID  int       `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID int       `gorm:"not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"follower"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}
