package models

import "time"

// Image represents an uploaded image record in the database using GORM.
// It corresponds to the 'images' table. Rows are written once on upload and never updated.
type Image struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorName       *string   `gorm:"" json:"author_name"` // Nullable, free text
	ImageName        *string   `gorm:"" json:"image_name"`  // Nullable, free text
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	StoredFilename   string    `gorm:"not null;uniqueIndex" json:"stored_filename"` // storage key and public reference
	ContentType      *string   `gorm:"" json:"content_type"`                        // Nullable
	Size             *int64    `gorm:"" json:"size"`                                // Nullable, bytes
	CreatedAt        time.Time `gorm:"not null;index" json:"created_at"`

	Width       *int       `gorm:"" json:"width,omitempty"`        // Nullable
	Height      *int       `gorm:"" json:"height,omitempty"`       // Nullable
	TakenAt     *time.Time `gorm:"" json:"taken_at,omitempty"`     // Nullable, from EXIF
	CameraMake  *string    `gorm:"" json:"camera_make,omitempty"`  // Nullable, from EXIF
	CameraModel *string    `gorm:"" json:"camera_model,omitempty"` // Nullable, from EXIF

	// Relationships
	Likes []Like `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Image) TableName() string {
	return "images"
}
