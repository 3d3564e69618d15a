package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/camden-git/gallerybackend/database"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

const (
	DefaultPageLimit      = 20
	MaxPageLimit          = 100
	DefaultTrendingWindow = 7 * 24 * time.Hour
)

// ImageURLPrefix is the public path under which stored uploads are served
const ImageURLPrefix = "/images/"

// PageRequest is one feed request as received from a client
type PageRequest struct {
	Page     int
	Limit    int
	Sort     string
	UserHash string // optional; marks liked_by_user
	BaseURL  string // scheme://host the request arrived on
}

// ClampPagination forces page to at least 1 and limit into [1, MaxPageLimit]
func ClampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// ImageURL builds the fully qualified retrieval address of a stored upload
func ImageURL(baseURL, storedFilename string) string {
	return strings.TrimRight(baseURL, "/") + ImageURLPrefix + url.PathEscape(storedFilename)
}

// FeedService builds pages of the image feed with like aggregates merged in
type FeedService struct {
	imageRepo      repository.ImageRepositoryInterface
	stats          database.Querier
	trendingWindow time.Duration
	now            func() time.Time
}

// NewFeedService creates a feed service. stats runs the batched like
// aggregates; a non-positive trendingWindow means DefaultTrendingWindow.
func NewFeedService(imageRepo repository.ImageRepositoryInterface, stats database.Querier, trendingWindow time.Duration) *FeedService {
	if trendingWindow <= 0 {
		trendingWindow = DefaultTrendingWindow
	}
	return &FeedService{
		imageRepo:      imageRepo,
		stats:          stats,
		trendingWindow: trendingWindow,
		now:            database.NowUTC,
	}
}

// ListPage returns one page of images in the requested order. Out of range
// pagination is clamped and unknown sorts fall back to recent; neither is an
// error. It does not report whether more pages exist.
func (s *FeedService) ListPage(ctx context.Context, req PageRequest) ([]models.ImageOut, error) {
	page, limit := ClampPagination(req.Page, req.Limit)
	sort := database.NormalizeSortOrder(req.Sort)

	images, err := s.imageRepo.ListPage(ctx, repository.PageQuery{
		Sort:        sort,
		Offset:      (page - 1) * limit,
		Limit:       limit,
		WindowStart: s.now().Add(-s.trendingWindow),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}

	totals, err := database.TotalLikes(ctx, s.stats, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate likes for page %d: %w", page, err)
	}
	liked, err := database.LikedByUser(ctx, s.stats, ids, req.UserHash)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve liked images for page %d: %w", page, err)
	}

	out := make([]models.ImageOut, 0, len(images))
	for _, img := range images {
		_, likedByUser := liked[img.ID]
		out = append(out, models.NewImageOut(img, totals[img.ID], likedByUser, ImageURL(req.BaseURL, img.StoredFilename)))
	}
	return out, nil
}
