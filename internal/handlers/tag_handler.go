package handlers

import (
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/catatanku/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	tagService *services.TagService
}

func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

var lookupOrderKeys = []string{
	scopes.OrderNew, scopes.OrderOld, scopes.OrderMostNotes, scopes.OrderLeastNotes,
}

func (h *TagHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	tag, err := h.tagService.Create(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Create tag successful",
		Data:    tag,
	})
}

func (h *TagHandler) List(c *fiber.Ctx) error {
	var q dto.LookupListQuery
	_ = c.QueryParser(&q)
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)

	tags, total, order, err := h.tagService.List(c.Context(), &q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(tags, q.Page, q.Limit, total, map[string]interface{}{
		"order":          order,
		"orderAvailable": lookupOrderKeys,
	}))
}

func (h *TagHandler) GetByID(c *fiber.Ctx) error {
	tagID, err := parseUUIDParam(c, "tagId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	tag, err := h.tagService.GetByID(c.Context(), tagID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

func (h *TagHandler) Update(c *fiber.Ctx) error {
	tagID, err := parseUUIDParam(c, "tagId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	tag, err := h.tagService.Update(c.Context(), tagID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Update tag successful", Data: tag})
}

func (h *TagHandler) Delete(c *fiber.Ctx) error {
	tagID, err := parseUUIDParam(c, "tagId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.tagService.Delete(c.Context(), tagID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Delete tag successful"})
}
