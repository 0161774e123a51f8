package handlers

import (
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/identity"
	"github.com/catatanku/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type PermissionHandler struct {
	permissionService *services.PermissionService
}

func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

func (h *PermissionHandler) List(c *fiber.Ctx) error {
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	page, limit := normalizePage(c.QueryInt("page", 1), c.QueryInt("limit", 10))

	grants, total, err := h.permissionService.List(c.Context(), noteID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginatedResponse(grants, page, limit, total, nil))
}

// Add creates a new grant; an existing one is a conflict.
func (h *PermissionHandler) Add(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.AddPermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	grant, err := h.permissionService.Add(c.Context(), who.ID, noteID, req.UserID, req.Permission)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Add note permission successful",
		Data:    grant,
	})
}

// Upsert creates or overwrites a grant in one call.
func (h *PermissionHandler) Upsert(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.AddPermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	grant, err := h.permissionService.Upsert(c.Context(), who.ID, noteID, req.UserID, req.Permission)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Change note permission successful",
		Data:    grant,
	})
}

func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.DeletePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if err := h.permissionService.Delete(c.Context(), who.ID, noteID, req.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Delete note permission successful"})
}
