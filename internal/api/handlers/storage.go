package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/middleware"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ObjectStore is the subset of storage.Client the handler needs.
type ObjectStore interface {
	Upload(ctx context.Context, userToken, path, contentType string, content io.Reader) error
	List(ctx context.Context, userToken, prefix string) ([]storage.Object, error)
	PublicURL(path string) string
}

// StorageHandler stores files in a per-user folder of the configured bucket.
type StorageHandler struct {
	store  ObjectStore
	logger *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(store ObjectStore, logger *zap.Logger) *StorageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageHandler{store: store, logger: logger}
}

// Upload handles POST /storage with a multipart "file" field.
func (h *StorageHandler) Upload(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNAUTHORIZED", Message: "not authenticated"},
		})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	objectPath := path.Join(user.UserID(), path.Base(header.Filename))
	err = func() error {
		file, err := header.Open()
		if err != nil {
			return err
		}
		defer file.Close()
		return h.store.Upload(c.Request.Context(), user.Token, objectPath, header.Header.Get("Content-Type"), file)
	}()
	if err != nil {
		h.logger.Error("file upload failed",
			zap.String("op", "handlers.StorageHandler.Upload"),
			zap.String("path", objectPath),
			zap.Error(err),
		)
		storageError(c, fmt.Sprintf("Failed to upload file: %v", err))
		return
	}

	c.JSON(http.StatusOK, models.FileUploadResponse{
		Message:   "File uploaded successfully",
		Path:      objectPath,
		PublicURL: h.store.PublicURL(objectPath),
	})
}

// List handles GET /storage and returns the caller's files.
func (h *StorageHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNAUTHORIZED", Message: "not authenticated"},
		})
		return
	}

	objects, err := h.store.List(c.Request.Context(), user.Token, user.UserID())
	if err != nil {
		h.logger.Error("file listing failed",
			zap.String("op", "handlers.StorageHandler.List"),
			zap.String("user_id", user.UserID()),
			zap.Error(err),
		)
		storageError(c, fmt.Sprintf("Failed to list files: %v", err))
		return
	}

	files := make([]models.StorageFileInfo, 0, len(objects))
	for _, obj := range objects {
		files = append(files, models.StorageFileInfo{
			Name:      obj.Name,
			Size:      obj.Metadata.Size,
			CreatedAt: obj.CreatedAt,
			PublicURL: h.store.PublicURL(path.Join(user.UserID(), obj.Name)),
		})
	}
	c.JSON(http.StatusOK, files)
}

func storageError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "STORAGE_ERROR",
			Message: message,
		},
	})
}
