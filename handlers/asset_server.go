package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/camden-git/gallerybackend/media"
)

const assetCacheDuration = 24 * time.Hour

// AssetServer creates a handler serving the flat directory of one asset type.
// The request path must be routePrefix followed by a single file name, e.g.
//
//	r.Get("/images/*", AssetServer(store, media.AssetTypeImage, "/images/"))
//
// Stored names are never reused, so responses are cacheable.
func AssetServer(store media.Store, assetType media.AssetType, routePrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, routePrefix)

		fullPath, err := store.GetFullPath(assetType, name)
		if err != nil {
			if errors.Is(err, media.ErrInvalidName) {
				log.Printf("SECURITY: Rejected asset request outside %s directory: Request='%s'", assetType, r.URL.Path)
				http.Error(w, "Invalid asset path", http.StatusBadRequest)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error resolving asset %s: %v", name, err)
			return
		}

		info, err := os.Stat(fullPath)
		if os.IsNotExist(err) || (err == nil && info.IsDir()) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", fullPath, err)
			return
		}

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(assetCacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(assetCacheDuration).Format(http.TimeFormat))
		w.Header().Set("X-Content-Type-Options", "nosniff")

		http.ServeFile(w, r, fullPath)
	}
}
