package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// helper to safely get a string tag, trimming null terminators and quotes
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	val = strings.TrimSpace(strings.TrimRight(val, "\x00"))
	if val == "" {
		return nil
	}
	return &val
}

// ExtractMetadata reads dimensions and, when present, EXIF capture details
// from an uploaded image. Nothing here fails an upload; unknown formats and
// missing EXIF just leave fields nil.
func ExtractMetadata(data []byte) Metadata {
	var meta Metadata

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	} else {
		log.Printf("media.metadata: Could not decode dimensions: %v", err)
	}

	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// most PNG and GIF uploads have no EXIF block
		return meta
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	if dt, err := exifData.DateTime(); err == nil {
		taken := dt.UTC()
		meta.TakenAt = &taken
	}

	if meta.Width != nil {
		log.Printf("media.metadata: Extracted %s metadata (%dx%d)", format, *meta.Width, *meta.Height)
	}
	return meta
}
