package models

import "time"

// ImageOut is the read-only view of an image returned to clients. It is
// assembled on every read and never stored.
type ImageOut struct {
	ID               uint      `json:"id"`
	AuthorName       *string   `json:"author_name"`
	ImageName        *string   `json:"image_name"`
	OriginalFilename string    `json:"original_filename"`
	StoredFilename   string    `json:"stored_filename"`
	ContentType      *string   `json:"content_type"`
	Size             *int64    `json:"size"`
	CreatedAt        time.Time `json:"created_at"`

	Width       *int       `json:"width,omitempty"`
	Height      *int       `json:"height,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	CameraMake  *string    `json:"camera_make,omitempty"`
	CameraModel *string    `json:"camera_model,omitempty"`

	LikesCount  int64  `json:"likes_count"`
	LikedByUser bool   `json:"liked_by_user"`
	ImageURL    string `json:"image_url"`
}

// NewImageOut merges a stored image with its like aggregates and public URL.
func NewImageOut(img Image, likesCount int64, likedByUser bool, imageURL string) ImageOut {
	return ImageOut{
		ID:               img.ID,
		AuthorName:       img.AuthorName,
		ImageName:        img.ImageName,
		OriginalFilename: img.OriginalFilename,
		StoredFilename:   img.StoredFilename,
		ContentType:      img.ContentType,
		Size:             img.Size,
		CreatedAt:        img.CreatedAt,
		Width:            img.Width,
		Height:           img.Height,
		TakenAt:          img.TakenAt,
		CameraMake:       img.CameraMake,
		CameraModel:      img.CameraModel,
		LikesCount:       likesCount,
		LikedByUser:      likedByUser,
		ImageURL:         imageURL,
	}
}

// LikeResult is the outcome of a like/unlike action.
type LikeResult struct {
	ImageID     uint  `json:"image_id"`
	LikesCount  int64 `json:"likes_count"`
	LikedByUser bool  `json:"liked_by_user"`
}
