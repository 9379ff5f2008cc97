package api

import (
	"net/http"

	"microblog/internal/api/respond"
	"microblog/internal/services"
)

// maxUploadBytes caps the in-memory part of multipart parsing.
const maxUploadBytes = 32 << 20

// MediaHandler provides HTTP transport for media uploads.
type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadMedia POST /api/medias
//
// No auth is enforced on uploads; the resulting row is orphaned until a tweet
// attaches it.
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	md, err := h.media.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result":   true,
		"media_id": md.ID,
	})
}
