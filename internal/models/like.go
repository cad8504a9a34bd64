package models

import "time"

// Like represents a like on a post. The composite unique index is what lets
// the engagement ledger treat a racing duplicate insert as "already liked"
// instead of an error. No soft-delete column: an unlike must free the index
// slot, or the tombstone would collide with the next like while the count
// stays at zero.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"` // ID of the liked post (MongoDB ObjectID as string)
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"` // ID of the user who liked the post
	CreatedAt time.Time `json:"created_at"`
}
