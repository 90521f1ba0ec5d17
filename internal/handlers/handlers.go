// Package handlers owns the HTTP boundary: request parsing and
// validation, multipart decoding, and the mapping from the service error
// taxonomy to status codes.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"musiccatalog/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validationErrorResponse renders a 400 with one message per failed field.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// serviceErrorResponse maps the error taxonomy to status codes. Anything
// outside the taxonomy is an infrastructure failure.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicateUsername):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// readFormFile reads an uploaded multipart file into memory and returns
// its bytes, filename and content type.
func readFormFile(fh *multipart.FileHeader) ([]byte, string, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}
