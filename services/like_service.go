package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

const (
	ActionLike   = "like"
	ActionUnlike = "unlike"
)

// LikeService applies like/unlike transitions for (image, user) pairs.
// user_hash is an opaque client-supplied token, not a verified identity.
type LikeService struct {
	imageRepo repository.ImageRepositoryInterface
	likeRepo  repository.LikeRepositoryInterface
}

func NewLikeService(imageRepo repository.ImageRepositoryInterface, likeRepo repository.LikeRepositoryInterface) *LikeService {
	return &LikeService{imageRepo: imageRepo, likeRepo: likeRepo}
}

// ApplyLike moves the (imageID, userHash) pair to liked or not-liked. Both
// actions are idempotent. The returned count is re-read from the store after
// the mutation.
func (s *LikeService) ApplyLike(ctx context.Context, imageID uint, userHash, action string) (models.LikeResult, error) {
	if strings.TrimSpace(userHash) == "" {
		return models.LikeResult{}, fmt.Errorf("%w: user_hash is required", ErrInvalidInput)
	}
	if action != ActionLike && action != ActionUnlike {
		return models.LikeResult{}, fmt.Errorf("%w: action must be %q or %q", ErrInvalidInput, ActionLike, ActionUnlike)
	}

	exists, err := s.imageRepo.Exists(ctx, imageID)
	if err != nil {
		return models.LikeResult{}, err
	}
	if !exists {
		return models.LikeResult{}, fmt.Errorf("%w: image %d", ErrNotFound, imageID)
	}

	likedByUser := action == ActionLike
	if likedByUser {
		if _, err := s.likeRepo.Add(ctx, imageID, userHash); err != nil {
			return models.LikeResult{}, err
		}
	} else {
		if _, err := s.likeRepo.Remove(ctx, imageID, userHash); err != nil {
			return models.LikeResult{}, err
		}
	}

	total, err := s.likeRepo.CountByImage(ctx, imageID)
	if err != nil {
		return models.LikeResult{}, err
	}

	return models.LikeResult{
		ImageID:     imageID,
		LikesCount:  total,
		LikedByUser: likedByUser,
	}, nil
}
