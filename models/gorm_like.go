package models

import "time"

// Like represents a single user's like of one image.
// It corresponds to the 'likes' table; (image_id, user_hash) is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageID   uint      `gorm:"not null;uniqueIndex:uix_image_user" json:"image_id"`
	UserHash  string    `gorm:"not null;uniqueIndex:uix_image_user;index" json:"user_hash"` // opaque, client supplied
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (Like) TableName() string {
	return "likes"
}
