package repositories

import (
	"errors"

	"github.com/openquill/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID string, userID uint) error
	CountLikes(postID string) (int64, error)
	HasLiked(postID string, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike inserts a like row. The (post_id, user_id) unique index rejects
// duplicates; that outcome is reported as ErrDuplicateLike so the ledger can
// reconcile racing toggles instead of failing.
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	if err := r.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateLike
		}
		return err
	}
	return nil
}

// DeleteLike removes the like row for the pair. A missing row is reported as
// ErrLikeNotFound, which callers treat as a no-op.
func (r *PostgresLikeRepository) DeleteLike(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// CountLikes returns the authoritative like count for a post
func (r *PostgresLikeRepository) CountLikes(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasLiked checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasLiked(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
