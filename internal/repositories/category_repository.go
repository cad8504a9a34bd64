package repositories

import (
	"github.com/openquill/inkwell/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category facet operations
type CategoryRepository interface {
	ListCategories() ([]models.Category, error)
	GetPostIDsByCategory(categoryID uint) ([]string, error)
	GetCategoriesForPost(postID string) ([]models.Category, error)
	SetPostCategories(postID string, categoryIDs []uint) error
	RemovePostCategories(postID string) error
}

// PostgresCategoryRepository implements CategoryRepository for PostgreSQL
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// ListCategories retrieves all categories ordered by name
func (r *PostgresCategoryRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetPostIDsByCategory retrieves the IDs of posts assigned to a category
func (r *PostgresCategoryRepository) GetPostIDsByCategory(categoryID uint) ([]string, error) {
	var assocs []models.PostCategory
	if err := r.db.Where("category_id = ?", categoryID).Find(&assocs).Error; err != nil {
		return nil, err
	}
	ids := make([]string, len(assocs))
	for i, a := range assocs {
		ids[i] = a.PostID
	}
	return ids, nil
}

// GetCategoriesForPost retrieves the categories assigned to a post
func (r *PostgresCategoryRepository) GetCategoriesForPost(postID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Joins("JOIN post_categories ON post_categories.category_id = categories.id").
		Where("post_categories.post_id = ?", postID).
		Order("categories.name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// SetPostCategories replaces the category assignments of a post
func (r *PostgresCategoryRepository) SetPostCategories(postID string, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		for _, cid := range categoryIDs {
			if err := tx.Create(&models.PostCategory{PostID: postID, CategoryID: cid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemovePostCategories clears all category assignments of a post
func (r *PostgresCategoryRepository) RemovePostCategories(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.PostCategory{}).Error
}
