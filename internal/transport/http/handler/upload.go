package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docassist/internal/app"
	"docassist/internal/extract"
	"docassist/internal/transport/http/response"
)

type UploadHandler struct {
	ingest     *app.IngestService
	storageDir string
}

func NewUploadHandler(ingest *app.IngestService, storageDir string) *UploadHandler {
	return &UploadHandler{
		ingest:     ingest,
		storageDir: storageDir,
	}
}

// Upload accepts a multipart form with "user_id" and "file", persists the
// file under the user's storage directory, extracts its text and indexes it.
// Unsupported types and extraction failures are soft errors: the body carries
// the problem, the status stays 200.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID := c.PostForm("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "missing user_id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file")
		return
	}

	dir := filepath.Join(h.storageDir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		response.Error(c, http.StatusInternalServerError, "create storage directory failed")
		return
	}

	filename := filepath.Base(fileHeader.Filename)
	fileID := uuid.NewString()
	storedPath := filepath.Join(dir, fileID+"_"+filename)
	if err := c.SaveUploadedFile(fileHeader, storedPath); err != nil {
		response.Error(c, http.StatusInternalServerError, "save file failed")
		return
	}

	text, err := extract.Extract(storedPath, filename)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFileType) {
			response.SoftError(c, "Unsupported file type")
			return
		}
		response.SoftError(c, "Failed to extract text: "+err.Error())
		return
	}

	if _, err := h.ingest.Index(c.Request.Context(), app.IndexInput{
		UserID:     userID,
		FileID:     fileID,
		Source:     filename,
		StoredPath: storedPath,
		Text:       text,
	}); err != nil {
		response.Error(c, http.StatusInternalServerError, "index file failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded and indexed",
		"file_id": fileID,
		"source":  filename,
		"user_id": userID,
	})
}
