package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/camden-git/gallerybackend/config"
	"github.com/camden-git/gallerybackend/media"
	"github.com/camden-git/gallerybackend/services"
)

// NewRouter wires the gallery routes and the shared middleware stack
func NewRouter(cfg config.Config, store media.Store, imageHandler *ImageHandler, likeHandler *LikeHandler) http.Handler {
	r := chi.NewRouter()

	allowCredentials := true
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			allowCredentials = false
		}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(corsHandler.Handler)

	r.Get("/", Health)

	r.Post("/image", imageHandler.UploadImage)
	r.Get("/images", imageHandler.ListImages)
	r.Get(services.ImageURLPrefix+"*", AssetServer(store, media.AssetTypeImage, services.ImageURLPrefix))
	log.Printf("Registered image server at %s*", services.ImageURLPrefix)

	r.Route("/api", func(r chi.Router) {
		r.Post("/images/{imageId}/like", likeHandler.ApplyLike)
	})

	return r
}
