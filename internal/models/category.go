package models

import "time"

// Category is a fixed facet dimension for narrowing discovery results
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex"`
	Slug      string    `json:"slug" gorm:"size:100;uniqueIndex"`
	Color     string    `json:"color" gorm:"size:20"`
	CreatedAt time.Time `json:"created_at"`
}

// PostCategory associates a post with a category (many-to-many)
type PostCategory struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PostID     string `json:"post_id" gorm:"index;uniqueIndex:idx_post_category"`
	CategoryID uint   `json:"category_id" gorm:"index;uniqueIndex:idx_post_category"`
}
