package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
	"github.com/camden-git/gallerybackend/testutils"
)

func newTestRouter(t *testing.T, maxUploadBytes int64) http.Handler {
	t.Helper()
	db := testutils.SetupDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	cfg := config.Config{
		MediaStoragePath: t.TempDir(),
		ImagesSubDir:     config.DefaultImagesSubDir,
		AllowedOrigins:   []string{"*"},
		RequestTimeout:   10 * time.Second,
		MaxUploadBytes:   maxUploadBytes,
		DefaultPageLimit: 20,
		TrendingWindow:   7 * 24 * time.Hour,
	}
	store, err := media.NewLocalStorage(cfg.MediaStoragePath, map[media.AssetType]string{media.AssetTypeImage: cfg.ImagesSubDir})
	require.NoError(t, err)

	imageRepo := repository.NewImageRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	imageHandler := &ImageHandler{
		Feed:             services.NewFeedService(imageRepo, sqlDB, cfg.TrendingWindow),
		Uploads:          services.NewUploadService(imageRepo, store),
		MaxUploadBytes:   cfg.MaxUploadBytes,
		DefaultPageLimit: cfg.DefaultPageLimit,
	}
	likeHandler := &LikeHandler{Likes: services.NewLikeService(imageRepo, likeRepo)}
	return NewRouter(cfg, store, imageHandler, likeHandler)
}

func multipartBody(t *testing.T, fields map[string]string, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, fields map[string]string, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func uploadOK(t *testing.T, router http.Handler, filename string) models.ImageOut {
	t.Helper()
	rec := upload(t, router, map[string]string{"authorName": "ann"}, filename, []byte("image-bytes-"+filename))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out models.ImageOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func postLike(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func listImages(t *testing.T, router http.Handler, query string) []models.ImageOut {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/images"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out []models.ImageOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIErrorDetail {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0]
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, 0)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestUploadReturnsViewModel(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	rec := upload(t, router, map[string]string{"authorName": "ann", "imageName": "sunset"}, "Sunset.JPG", []byte("jpeg-ish"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "ann", raw["author_name"])
	assert.Equal(t, "sunset", raw["image_name"])
	assert.Equal(t, "Sunset.JPG", raw["original_filename"])
	assert.Equal(t, float64(0), raw["likes_count"])
	assert.Equal(t, false, raw["liked_by_user"])
	assert.Equal(t, float64(len("jpeg-ish")), raw["size"])

	stored := raw["stored_filename"].(string)
	assert.True(t, strings.HasSuffix(stored, ".jpg"))
	assert.Equal(t, "http://example.com/images/"+stored, raw["image_url"])
}

func TestUploadOptionalFieldsAreNull(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	rec := upload(t, router, nil, "noext", []byte("data"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Nil(t, raw["author_name"])
	assert.Nil(t, raw["image_name"])
	assert.True(t, strings.HasSuffix(raw["stored_filename"].(string), ".png"))
}

func TestUploadWithoutFileIsBadRequest(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	rec := upload(t, router, map[string]string{"authorName": "ann"}, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	detail := decodeAPIError(t, rec)
	assert.Equal(t, CodeInvalidInput, detail.Code)
	assert.Equal(t, "400", detail.Status)
}

func TestUploadTooLarge(t *testing.T) {
	router := newTestRouter(t, 1024)

	rec := upload(t, router, nil, "big.png", bytes.Repeat([]byte("x"), 4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, CodePayloadTooLarge, decodeAPIError(t, rec).Code)
}

func TestUploadedFileIsServed(t *testing.T) {
	router := newTestRouter(t, 1<<20)
	out := uploadOK(t, router, "cat.gif")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/"+out.StoredFilename, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image-bytes-cat.gif", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=86400")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssetServerRejectsNestedPaths(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/images/x", nil)
	req.URL.Path = "/images/../app.db"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageURLFollowsRequestOrigin(t *testing.T) {
	router := newTestRouter(t, 1<<20)
	out := uploadOK(t, router, "a.png")

	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	req.Host = "gallery.test:9000"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.ImageOut
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "https://gallery.test:9000/images/"+out.StoredFilename, list[0].ImageURL)
}

func TestListImagesEmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListImagesClampsAndDefaults(t *testing.T) {
	router := newTestRouter(t, 1<<20)
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		uploadOK(t, router, name)
	}

	assert.Len(t, listImages(t, router, "?limit=0"), 1)
	assert.Len(t, listImages(t, router, "?limit=-5&page=-2"), 1)
	assert.Len(t, listImages(t, router, "?limit=500"), 3)
	assert.Len(t, listImages(t, router, "?limit=abc&page=xyz"), 3)
	assert.Empty(t, listImages(t, router, "?page=2"))
}

func TestLikeFlow(t *testing.T) {
	router := newTestRouter(t, 1<<20)
	a := uploadOK(t, router, "a.png")
	b := uploadOK(t, router, "b.png")
	path := "/api/images/" + jsonID(a.ID) + "/like"

	for i := 0; i < 2; i++ {
		rec := postLike(router, path, `{"user_hash":"u1","action":"like"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"image_id":`+jsonID(a.ID)+`,"likes_count":1,"liked_by_user":true}`, rec.Body.String())
	}

	list := listImages(t, router, "?sort=popular&user_hash=u1")
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, int64(1), list[0].LikesCount)
	assert.True(t, list[0].LikedByUser)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, int64(0), list[1].LikesCount)
	assert.False(t, list[1].LikedByUser)

	rec := postLike(router, path, `{"user_hash":"u1","action":"unlike"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"image_id":`+jsonID(a.ID)+`,"likes_count":0,"liked_by_user":false}`, rec.Body.String())
}

func TestLikeErrors(t *testing.T) {
	router := newTestRouter(t, 1<<20)
	a := uploadOK(t, router, "a.png")
	path := "/api/images/" + jsonID(a.ID) + "/like"

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "bad action", path: path, body: `{"user_hash":"u1","action":"love"}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidInput},
		{name: "missing hash", path: path, body: `{"action":"like"}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidInput},
		{name: "malformed json", path: path, body: `{`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidInput},
		{name: "non numeric id", path: "/api/images/abc/like", body: `{"user_hash":"u1","action":"like"}`, wantCode: http.StatusBadRequest, wantErr: CodeInvalidInput},
		{name: "missing image", path: "/api/images/99999/like", body: `{"user_hash":"u1","action":"like"}`, wantCode: http.StatusNotFound, wantErr: CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLike(router, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeAPIError(t, rec).Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, 1<<20)

	req := httptest.NewRequest(http.MethodOptions, "/images", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	req.Host = "h:8080"
	assert.Equal(t, "http://h:8080", requestBaseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https, http")
	assert.Equal(t, "https://h:8080", requestBaseURL(req))

	req.Header.Set("X-Forwarded-Proto", "gopher")
	assert.Equal(t, "http://h:8080", requestBaseURL(req))
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
