package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/storage"
	"github.com/edustack/lms-service/internal/utils"
)

type UploadHandler struct {
	BaseHandler
	store *storage.BlobStore
}

func NewUploadHandler(store *storage.BlobStore, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
	}
}

func parseCategory(raw string) (models.UploadCategory, bool) {
	switch models.UploadCategory(raw) {
	case models.UploadCategoryDocument, models.UploadCategoryImage, models.UploadCategoryArchive:
		return models.UploadCategory(raw), true
	}
	return "", false
}

func (h *UploadHandler) UploadFile(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	category, ok := parseCategory(c.PostForm("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "category must be one of document, image, archive",
			Timestamp: time.Now(),
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "file field is required",
			Timestamp: time.Now(),
		})
		return
	}

	// Reject by declared size before reading the body into memory.
	if _, err := h.store.ValidateUpload(fileHeader.Filename, fileHeader.Size, category); err != nil {
		h.uploadError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	uploaded, err := h.store.Upload(c.Request.Context(), userID, category, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		h.uploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, uploaded)
}

func (h *UploadHandler) ListFiles(c *gin.Context) {
	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	category, ok := parseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "category must be one of document, image, archive",
			Timestamp: time.Now(),
		})
		return
	}

	files, err := h.store.List(c.Request.Context(), userID, category)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *UploadHandler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:     "file_too_large",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
	case errors.Is(err, storage.ErrUnsupportedFileType):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "unsupported_file_type",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
	default:
		h.handleServiceError(c, err)
	}
}
