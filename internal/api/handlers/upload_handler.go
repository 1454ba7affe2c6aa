// server/internal/api/handlers/upload_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcamp-api-server/internal/logger"
	"medcamp-api-server/internal/media"
)

const maxImageSize = 5 << 20

// UploadHandler stores images for camps and profiles. Uploader is nil when
// no media provider is configured.
type UploadHandler struct {
	Uploader media.Uploader
}

// UploadImage takes a multipart "image" field and answers {"url": ...}.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.Uploader == nil {
		respondMessage(c, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		respondMessage(c, http.StatusBadRequest, "image is larger than 5MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	url, err := h.Uploader.Upload(c.Request.Context(), file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("file", fileHeader.Filename).Msg("image upload failed")
		respondMessage(c, http.StatusBadGateway, "image upload failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
