// media/types.go
package media

import "time"

type AssetType string

const (
	// AssetTypeImage holds uploaded originals, stored flat under one directory
	AssetTypeImage   AssetType = "image"
	AssetTypeUnknown AssetType = "unknown"
)

// DefaultImageExtension is used when an upload has no extension of its own
const DefaultImageExtension = ".png"

// Metadata holds the optional facts captured from an upload.
// Every field is best-effort and may be nil.
type Metadata struct {
	Width       *int
	Height      *int
	TakenAt     *time.Time // from EXIF DateTimeOriginal
	CameraMake  *string
	CameraModel *string
}
