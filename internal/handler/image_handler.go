package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/storage"
)

// ImageHandler serves uploaded listing images.
type ImageHandler struct {
	storage storage.Storage
	logger  *zap.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(store storage.Storage, logger *zap.Logger) *ImageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageHandler{storage: store, logger: logger}
}

// GetImage godoc
// @Summary Download a listing image
// @Tags images
// @Produce octet-stream
// @Param path path string true "Storage path"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /images/{path} [get]
func (h *ImageHandler) GetImage(c echo.Context) error {
	storagePath := c.Param("*")

	rc, err := h.storage.Download(c.Request().Context(), storagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return toHTTPError(apperrors.ErrNotFound)
		}
		h.logger.Error("download image", zap.String("path", storagePath), zap.Error(err))
		return toHTTPError(err)
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, storage.ContentType(storagePath), rc)
}
