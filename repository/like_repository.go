package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository handles database operations for Like entities
type LikeRepository struct {
	DB *gorm.DB
}

// NewLikeRepository creates a new instance of LikeRepository
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{DB: db}
}

// Add inserts a like for (imageID, userHash). The unique index makes a second
// insert a no-op (ON CONFLICT DO NOTHING); created reports whether a row was written.
func (r *LikeRepository) Add(ctx context.Context, imageID uint, userHash string) (bool, error) {
	like := models.Like{ImageID: imageID, UserHash: userHash}
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add like for image %d: %w", imageID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes any like for (imageID, userHash); zero rows is not an error
func (r *LikeRepository) Remove(ctx context.Context, imageID uint, userHash string) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("image_id = ? AND user_hash = ?", imageID, userHash).
		Delete(&models.Like{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to remove like for image %d: %w", imageID, result.Error)
	}
	return result.RowsAffected, nil
}

// CountByImage returns the total number of likes stored for an image
func (r *LikeRepository) CountByImage(ctx context.Context, imageID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).Where("image_id = ?", imageID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes for image %d: %w", imageID, err)
	}
	return count, nil
}

// Exists reports whether userHash currently likes the image
func (r *LikeRepository) Exists(ctx context.Context, imageID uint, userHash string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).
		Where("image_id = ? AND user_hash = ?", imageID, userHash).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like for image %d: %w", imageID, err)
	}
	return count > 0, nil
}
