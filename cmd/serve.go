package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/database"
	"github.com/camden-git/gallerybackend/handlers"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/repository"
	"github.com/camden-git/gallerybackend/services"
)

const shutdownGracePeriod = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// openDatabase loads config, creates the storage directories and opens a
// migrated database.
func openDatabase() (config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	storagePaths := []string{cfg.ImagesPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			return config.Config{}, nil, fmt.Errorf("failed to create storage directory %s: %w", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		closeDatabase(db)
		return config.Config{}, nil, err
	}
	return cfg, db, nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func runServe() error {
	cfg, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath, map[media.AssetType]string{
		media.AssetTypeImage: cfg.ImagesSubDir,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	imageRepo := repository.NewImageRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	imageHandler := &handlers.ImageHandler{
		Feed:             services.NewFeedService(imageRepo, sqlDB, cfg.TrendingWindow),
		Uploads:          services.NewUploadService(imageRepo, mediaStore),
		MaxUploadBytes:   cfg.MaxUploadBytes,
		DefaultPageLimit: cfg.DefaultPageLimit,
	}
	likeHandler := &handlers.LikeHandler{
		Likes: services.NewLikeService(imageRepo, likeRepo),
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing images in: %s", cfg.ImagesPath)
	log.Printf("Trending window: %s", cfg.TrendingWindow)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handlers.NewRouter(cfg, mediaStore, imageHandler, likeHandler),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", serverAddr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
