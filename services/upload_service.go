package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

// UploadInput is one uploaded file plus its optional descriptive fields
type UploadInput struct {
	AuthorName       *string
	ImageName        *string
	OriginalFilename string
	ContentType      string
	Data             io.Reader
}

// UploadService stores uploaded binaries and records their metadata
type UploadService struct {
	imageRepo repository.ImageRepositoryInterface
	store     media.Store
}

func NewUploadService(imageRepo repository.ImageRepositoryInterface, store media.Store) *UploadService {
	return &UploadService{imageRepo: imageRepo, store: store}
}

// Upload writes the file under a fresh unique name, then commits the record.
// The two steps are not atomic: if the record cannot be written the file is
// removed again, but a crash in between leaves an orphaned file.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*models.Image, error) {
	if in.Data == nil {
		return nil, fmt.Errorf("%w: no image file provided", ErrInvalidInput)
	}

	data, err := io.ReadAll(in.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	originalName := media.CleanOriginalFilename(in.OriginalFilename)
	storedName := media.NewStoredFilename(originalName)

	size, err := s.store.Save(media.AssetTypeImage, storedName, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store upload %s: %w", originalName, err)
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	meta := media.ExtractMetadata(data)

	img := &models.Image{
		AuthorName:       in.AuthorName,
		ImageName:        in.ImageName,
		OriginalFilename: originalName,
		StoredFilename:   storedName,
		ContentType:      &contentType,
		Size:             &size,
		Width:            meta.Width,
		Height:           meta.Height,
		TakenAt:          meta.TakenAt,
		CameraMake:       meta.CameraMake,
		CameraModel:      meta.CameraModel,
	}

	if err := s.imageRepo.Create(ctx, img); err != nil {
		if delErr := s.store.Delete(media.AssetTypeImage, storedName); delErr != nil {
			log.Printf("services.upload: Failed to remove orphaned file %s: %v", storedName, delErr)
		}
		return nil, err
	}

	log.Printf("services.upload: Stored %s as %s (%d bytes, image id %d)", originalName, storedName, size, img.ID)
	return img, nil
}
