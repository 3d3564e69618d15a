package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/gallerybackend/services"
)

type LikeHandler struct {
	Likes *services.LikeService
}

type likeRequest struct {
	UserHash string `json:"user_hash"`
	Action   string `json:"action"`
}

// ApplyLike handles POST /api/images/{imageId}/like
func (h *LikeHandler) ApplyLike(w http.ResponseWriter, r *http.Request) {
	imageID, err := strconv.ParseUint(chi.URLParam(r, "imageId"), 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidInput, "Invalid image ID")
		return
	}

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeInvalidInput, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.Likes.ApplyLike(r.Context(), uint(imageID), req.UserHash, req.Action)
	if err != nil {
		writeServiceError(w, err, "apply like")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
