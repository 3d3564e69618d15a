package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultImagesSubDir = "images"
)

const (
	defaultPort               = "8080"
	defaultPageLimit          = 20
	defaultMaxUploadSizeMB    = 20
	defaultTrendingWindowDays = 7
	defaultRequestTimeoutSecs = 60
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // root for stored uploads
	ImagesSubDir     string // flat directory (relative to MediaStoragePath) holding uploaded binaries
	ImagesPath       string // full-calculated path for uploaded binaries

	// http
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxUploadBytes int64

	// feed
	DefaultPageLimit int
	TrendingWindow   time.Duration
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvListOrDefault(envVar string, defaultVal []string) []string {
	valStr := os.Getenv(envVar)
	if strings.TrimSpace(valStr) == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", filepath.Join("data", "app.db"))

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "data"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	imagesSubDir := getEnvOrDefault("IMAGES_SUBDIR", DefaultImagesSubDir)
	absImagesPath := filepath.Clean(filepath.Join(absMediaStorage, imagesSubDir))
	if !strings.HasPrefix(absImagesPath, absMediaStorage+string(filepath.Separator)) || absImagesPath == absMediaStorage {
		return Config{}, fmt.Errorf("images subdirectory '%s' must resolve inside media storage '%s'", imagesSubDir, absMediaStorage)
	}

	relImagesDir, err := filepath.Rel(absMediaStorage, absImagesPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve images subdirectory '%s': %w", imagesSubDir, err)
	}

	maxUploadMB := getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", defaultMaxUploadSizeMB)
	pageLimit := getEnvIntOrDefault("DEFAULT_PAGE_LIMIT", defaultPageLimit)
	if pageLimit > 100 {
		log.Printf("Warning: DEFAULT_PAGE_LIMIT %d exceeds maximum page size, using 100", pageLimit)
		pageLimit = 100
	}
	windowDays := getEnvIntOrDefault("TRENDING_WINDOW_DAYS", defaultTrendingWindowDays)
	timeoutSecs := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSecs)

	cfg := Config{
		DatabasePath:     dbPath,
		MediaStoragePath: absMediaStorage,
		ImagesSubDir:     relImagesDir,
		ImagesPath:       absImagesPath,
		Port:             getEnvOrDefault("PORT", defaultPort),
		AllowedOrigins:   getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:   time.Duration(timeoutSecs) * time.Second,
		MaxUploadBytes:   int64(maxUploadMB) * 1024 * 1024,
		DefaultPageLimit: pageLimit,
		TrendingWindow:   time.Duration(windowDays) * 24 * time.Hour,
	}

	return cfg, nil
}
