package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// UploadHandler accepts multipart image uploads.
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload handles POST /upload with a single "file" part.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if _, ok := auth.SessionFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", nil)
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer file.Close()

	var reader io.Reader = file
	if limit := h.uploads.MaxBytes(); limit > 0 {
		// One extra byte lets the service see that the limit was exceeded.
		reader = io.LimitReader(file, int64(limit)+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("read upload: %w", err))
	}

	url, err := h.uploads.Upload(c.UserContext(), header.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UploadResponse{URL: url}})
}
