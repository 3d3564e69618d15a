package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/services"
)

// multipart parts above this size spill to temporary files
const multipartMemory = 32 << 20

type ImageHandler struct {
	Feed             *services.FeedService
	Uploads          *services.UploadService
	MaxUploadBytes   int64
	DefaultPageLimit int
}

// UploadImage handles POST /image with multipart fields authorName, imageName
// (both optional) and the required file part image.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteAPIError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Upload exceeds the maximum size of "+strconv.FormatInt(maxErr.Limit, 10)+" bytes")
			return
		}
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidInput, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("handlers.upload: Failed to remove multipart temp files: %v", err)
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidInput, "No image file provided")
		return
	}
	defer file.Close()

	img, err := h.Uploads.Upload(r.Context(), services.UploadInput{
		AuthorName:       optionalFormValue(r, "authorName"),
		ImageName:        optionalFormValue(r, "imageName"),
		OriginalFilename: header.Filename,
		ContentType:      header.Header.Get("Content-Type"),
		Data:             file,
	})
	if err != nil {
		writeServiceError(w, err, "upload image")
		return
	}

	writeJSON(w, http.StatusOK, models.NewImageOut(*img, 0, false, services.ImageURL(requestBaseURL(r), img.StoredFilename)))
}

// ListImages handles GET /images?page&limit&sort&user_hash. Missing or
// non-numeric page and limit use the defaults; range clamping happens in the feed.
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	defaultLimit := h.DefaultPageLimit
	if defaultLimit <= 0 {
		defaultLimit = services.DefaultPageLimit
	}

	images, err := h.Feed.ListPage(r.Context(), services.PageRequest{
		Page:     queryIntOrDefault(q.Get("page"), 1),
		Limit:    queryIntOrDefault(q.Get("limit"), defaultLimit),
		Sort:     q.Get("sort"),
		UserHash: q.Get("user_hash"),
		BaseURL:  requestBaseURL(r),
	})
	if err != nil {
		writeServiceError(w, err, "list images")
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func queryIntOrDefault(raw string, defaultVal int) int {
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultVal
	}
	return val
}

// optionalFormValue returns nil for absent or blank fields
func optionalFormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values := r.MultipartForm.Value[key]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil
	}
	v := values[0]
	return &v
}
