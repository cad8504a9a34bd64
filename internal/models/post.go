package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB
type Post struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID         uint               `json:"author_id" bson:"author_id"`
	Title            string             `json:"title" bson:"title"`
	Content          string             `json:"content" bson:"content"`
	Excerpt          string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	FeaturedImageURL string             `json:"featured_image_url,omitempty" bson:"featured_image_url,omitempty"`
	Tags             []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Published        bool               `json:"published" bson:"published"`
	IsFeatured       bool               `json:"is_featured" bson:"is_featured"`
	ViewCount        int64              `json:"view_count" bson:"view_count"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasTag reports whether the post carries the given tag. Tags are free-form
// strings compared case-sensitively.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title            string   `json:"title" validate:"required,min=1,max=200"`
	Content          string   `json:"content" validate:"required,min=1"`
	Excerpt          string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	FeaturedImageURL string   `json:"featured_image_url,omitempty" validate:"omitempty,url"`
	Tags             []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Published        bool     `json:"published"`
	CategoryIDs      []uint   `json:"category_ids,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title            string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content          string   `json:"content,omitempty" validate:"omitempty,min=1"`
	Excerpt          string   `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	FeaturedImageURL string   `json:"featured_image_url,omitempty" validate:"omitempty,url"`
	Tags             []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Published        *bool    `json:"published,omitempty"`
	CategoryIDs      []uint   `json:"category_ids,omitempty"`
}
