package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	IsAdmin     bool   `json:"is_admin" gorm:"default:false"`
	Password    string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// ToCompact returns the public author projection used in post listings
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// UserCompact is the minimal author view embedded in discovery results
type UserCompact struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type CreateUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // Firebase UID will be provided by the client after Firebase Auth
}

type CreateLocalUserRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
