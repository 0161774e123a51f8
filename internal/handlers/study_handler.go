package handlers

import (
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/services"
	"github.com/catatanku/backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type StudyHandler struct {
	studyService *services.StudyService
	storage      *storage.Client
}

func NewStudyHandler(studyService *services.StudyService, st *storage.Client) *StudyHandler {
	return &StudyHandler{studyService: studyService, storage: st}
}

func (h *StudyHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStudyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	imageURL, err := uploadFormFile(c, h.storage, "image", "studies")
	if err != nil {
		return badRequest(c, "Failed to upload study image")
	}

	study, err := h.studyService.Create(c.Context(), &req, imageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Create study successful",
		Data:    study,
	})
}

func (h *StudyHandler) List(c *fiber.Ctx) error {
	var q dto.LookupListQuery
	_ = c.QueryParser(&q)
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)

	studies, total, order, err := h.studyService.List(c.Context(), &q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(studies, q.Page, q.Limit, total, map[string]interface{}{
		"order":          order,
		"orderAvailable": lookupOrderKeys,
	}))
}

func (h *StudyHandler) GetByID(c *fiber.Ctx) error {
	studyID, err := parseUUIDParam(c, "studyId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	study, err := h.studyService.GetByID(c.Context(), studyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(study)
}

func (h *StudyHandler) Update(c *fiber.Ctx) error {
	studyID, err := parseUUIDParam(c, "studyId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateStudyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	imageURL, err := uploadFormFile(c, h.storage, "image", "studies")
	if err != nil {
		return badRequest(c, "Failed to upload study image")
	}

	study, err := h.studyService.Update(c.Context(), studyID, &req, imageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Update study successful", Data: study})
}

func (h *StudyHandler) Delete(c *fiber.Ctx) error {
	studyID, err := parseUUIDParam(c, "studyId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.studyService.Delete(c.Context(), studyID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Delete study successful"})
}
