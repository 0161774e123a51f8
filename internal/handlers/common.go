package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/identity"
	"github.com/catatanku/backend/internal/services"
	"github.com/catatanku/backend/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// respondError translates service sentinels into HTTP statuses. Unknown
// errors become opaque 500s; the concrete cause goes to the log, not the
// client.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrStudyNotFound),
		errors.Is(err, services.ErrAttachmentNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrGrantNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyGrantee),
		errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrTagNameTaken),
		errors.Is(err, services.ErrStudyNameTaken):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, identity.ErrNoIdentity):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrOauthNoPassword):
		status, message = fiber.StatusBadRequest, err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Validation failed: " + err.Error(),
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.New("invalid " + name)
	}
	return id, nil
}

// normalizePage clamps page and limit to sane values: page >= 1, limit in
// [1, 100], defaulting to 1/10.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// uploadFormFile uploads an optional single-file field, returning "" when the
// field is absent or storage is not configured.
func uploadFormFile(c *fiber.Ctx, st *storage.Client, field, folder string) (string, error) {
	if st == nil {
		return "", nil
	}
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return uploadOne(c, st, fileHeader, folder)
}

func uploadOne(c *fiber.Ctx, st *storage.Client, fileHeader *multipart.FileHeader, folder string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	url, err := st.Upload(c.Context(), folder, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		slog.Error("Upload failed", "file", fileHeader.Filename, "error", err)
		return "", err
	}
	return url, nil
}
