package media

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewStoredFilename returns a collision-resistant storage name for an upload:
// 32 hex characters of a random UUID followed by the original extension
// (lowercased), or DefaultImageExtension when the original has none.
func NewStoredFilename(originalFilename string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return token + storedExtension(originalFilename)
}

// CleanOriginalFilename keeps only the base name a client sent, so it is safe to display
func CleanOriginalFilename(originalFilename string) string {
	name := filepath.Base(strings.ReplaceAll(originalFilename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

func storedExtension(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(CleanOriginalFilename(originalFilename)))
	if ext == "" || ext == "." || strings.ContainsAny(ext, " %?#") {
		return DefaultImageExtension
	}
	return ext
}
