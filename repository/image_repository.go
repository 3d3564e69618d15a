package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/gallerybackend/database"
	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

// ImageRepository handles database operations for Image entities
type ImageRepository struct {
	DB *gorm.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{DB: db}
}

// Create inserts a new image record; ID and CreatedAt are assigned by the store
func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.DB.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image record for %s: %w", image.StoredFilename, err)
	}
	return nil
}

// GetByID retrieves an image by its id. gorm.ErrRecordNotFound is returned unwrapped.
func (r *ImageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.DB.WithContext(ctx).First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get image by id %d: %w", id, err)
	}
	return &image, nil
}

// Exists reports whether an image with the given id is stored
func (r *ImageRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Image{}).Where("id = ?", id).Limit(1).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check image %d exists: %w", id, err)
	}
	return count > 0, nil
}

// ListPage returns one offset/limit window of images ordered by the requested
// sort. Unknown sorts fall back to recent. Every ordering ends with id DESC so
// ties land in a stable order across pages.
func (r *ImageRepository) ListPage(ctx context.Context, query PageQuery) ([]models.Image, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Image{})

	switch database.NormalizeSortOrder(query.Sort) {
	case database.SortPopular:
		tx = tx.Select("images.*, COUNT(likes.id) AS total_likes").
			Joins("LEFT JOIN likes ON likes.image_id = images.id").
			Group("images.id").
			Order("total_likes DESC")
	case database.SortTrending:
		sub, args, err := database.TrendingScoreSubquery(query.WindowStart).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build trending subquery: %w", err)
		}
		tx = tx.Select("images.*, ("+sub+") AS window_likes", args...).
			Order("window_likes DESC")
	default:
		tx = tx.Order("images.created_at DESC")
	}

	var images []models.Image
	err := tx.Order("images.id DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images (sort %s, offset %d, limit %d): %w", query.Sort, query.Offset, query.Limit, err)
	}
	return images, nil
}
