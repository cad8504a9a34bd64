package repositories

import (
	"errors"

	"github.com/openquill/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for bookmark operations
type SavedPostRepository interface {
	SavePost(savedPost *models.SavedPost) error
	UnsavePost(userID uint, postID string) error
	IsPostSaved(userID uint, postID string) (bool, error)
	GetSavedPostsByUser(userID uint) ([]models.SavedPost, error)
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// SavePost bookmarks a post. Saving twice is a no-op thanks to the composite
// unique index.
func (r *PostgresSavedPostRepository) SavePost(savedPost *models.SavedPost) error {
	if err := r.db.Create(savedPost).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func (r *PostgresSavedPostRepository) UnsavePost(userID uint, postID string) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresSavedPostRepository) IsPostSaved(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedPostRepository) GetSavedPostsByUser(userID uint) ([]models.SavedPost, error) {
	var saved []models.SavedPost
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error
	return saved, err
}
