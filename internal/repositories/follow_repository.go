package repositories

import (
	"errors"

	"github.com/openquill/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for author-follow operations
type FollowRepository interface {
	Follow(follow *models.Follow) error
	Unfollow(followerID, authorID uint) error
	IsFollowing(followerID, authorID uint) (bool, error)
	GetFollowerIDs(authorID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository
type PostgresFollowRepository struct {
	db *gorm.DB
}

func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow creates a follow row; a duplicate pair is a no-op.
func (r *PostgresFollowRepository) Follow(follow *models.Follow) error {
	if err := r.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func (r *PostgresFollowRepository) Unfollow(followerID, authorID uint) error {
	res := r.db.Where("follower_id = ? AND author_id = ?", followerID, authorID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND author_id = ?", followerID, authorID).Count(&count).Error
	return count > 0, err
}

// GetFollowerIDs returns the user IDs following an author, used to fan out
// new-post notifications.
func (r *PostgresFollowRepository) GetFollowerIDs(authorID uint) ([]uint, error) {
	var follows []models.Follow
	if err := r.db.Where("author_id = ?", authorID).Find(&follows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(follows))
	for i, f := range follows {
		ids[i] = f.FollowerID
	}
	return ids, nil
}
