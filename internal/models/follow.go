package models

import "time"

// Follow represents a reader following an author
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_author"`
	AuthorID   uint      `json:"author_id" gorm:"index;uniqueIndex:idx_follower_author"`
	CreatedAt  time.Time `json:"created_at"`
}
