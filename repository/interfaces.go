package repository

import (
	"context"
	"time"

	"github.com/camden-git/gallerybackend/models"
)

// PageQuery describes one window of the image feed
type PageQuery struct {
	Sort        string    // one of database.SortRecent, SortPopular, SortTrending
	Offset      int       // rows to skip
	Limit       int       // rows to return
	WindowStart time.Time // lower bound for likes counted by the trending sort
}

// ImageRepositoryInterface defines the methods for image data operations
type ImageRepositoryInterface interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListPage(ctx context.Context, query PageQuery) ([]models.Image, error)
}

// LikeRepositoryInterface defines the methods for like data operations
type LikeRepositoryInterface interface {
	// Add records a like; an existing (image, user) like is left untouched and reported as not created
	Add(ctx context.Context, imageID uint, userHash string) (bool, error)
	// Remove deletes the (image, user) like if present and returns the number of rows removed
	Remove(ctx context.Context, imageID uint, userHash string) (int64, error)
	CountByImage(ctx context.Context, imageID uint) (int64, error)
	Exists(ctx context.Context, imageID uint, userHash string) (bool, error)
}
