package handlers

import (
	"context"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/identity"
	"github.com/catatanku/backend/internal/middleware"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/catatanku/backend/internal/services"
	"github.com/catatanku/backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NoteHandler struct {
	noteService        *services.NoteService
	interactionService *services.InteractionService
	storage            *storage.Client
}

func NewNoteHandler(noteService *services.NoteService, interactionService *services.InteractionService, st *storage.Client) *NoteHandler {
	return &NoteHandler{noteService: noteService, interactionService: interactionService, storage: st}
}

var (
	allCategories = []string{
		scopes.CategoryHome, scopes.CategoryShared, scopes.CategoryPrivate,
		scopes.CategorySelf, scopes.CategoryFavorited, scopes.CategorySaved,
	}
	byUserCategories = []string{scopes.CategoryHome, scopes.CategoryShared}

	allOrders    = []string{scopes.OrderNew, scopes.OrderOld, scopes.OrderBest, scopes.OrderWorst}
	lookupOrders = []string{scopes.OrderNew, scopes.OrderOld, scopes.OrderBest}
)

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	thumbnailURL, err := uploadFormFile(c, h.storage, "thumbnail", "thumbnails")
	if err != nil {
		return badRequest(c, "Failed to upload thumbnail")
	}
	attachments, err := h.uploadAttachments(c)
	if err != nil {
		return badRequest(c, "Failed to upload attachments")
	}

	note, err := h.noteService.Create(c.Context(), who.ID, &req, thumbnailURL, attachments)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Create note successful",
		Data:    note,
	})
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	q := parseNoteQuery(c)

	list, err := h.noteService.List(c.Context(), identity.ViewerID(c), q.Category, q.Order, q.Page, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(list.Notes, q.Page, q.Limit, list.Total, map[string]interface{}{
		"category":          list.Category,
		"categoryAvailable": allCategories,
		"order":             list.Order,
		"orderAvailable":    allOrders,
	}))
}

func (h *NoteHandler) ListByUser(c *fiber.Ctx) error {
	authorID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	q := parseNoteQuery(c)
	q.Category = restrict(q.Category, byUserCategories)

	list, err := h.noteService.ListByUser(c.Context(), identity.ViewerID(c), authorID, q.Category, q.Order, q.Page, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(list.Notes, q.Page, q.Limit, list.Total, map[string]interface{}{
		"category":          list.Category,
		"categoryAvailable": byUserCategories,
		"order":             list.Order,
		"orderAvailable":    allOrders,
	}))
}

func (h *NoteHandler) ListByTag(c *fiber.Ctx) error {
	tagName := c.Params("tagName")
	q := parseNoteQuery(c)
	q.Order = restrict(q.Order, lookupOrders)

	list, err := h.noteService.ListByTag(c.Context(), identity.ViewerID(c), tagName, q.Category, q.Order, q.Page, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(list.Notes, q.Page, q.Limit, list.Total, map[string]interface{}{
		"order":          list.Order,
		"orderAvailable": lookupOrders,
	}))
}

func (h *NoteHandler) ListByStudy(c *fiber.Ctx) error {
	studyName := c.Params("studyName")
	q := parseNoteQuery(c)
	q.Order = restrict(q.Order, lookupOrders)

	list, err := h.noteService.ListByStudy(c.Context(), identity.ViewerID(c), studyName, q.Category, q.Order, q.Page, q.Limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(list.Notes, q.Page, q.Limit, list.Total, map[string]interface{}{
		"order":          list.Order,
		"orderAvailable": lookupOrders,
	}))
}

func (h *NoteHandler) GetByID(c *fiber.Ctx) error {
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	note, err := h.noteService.GetByID(c.Context(), identity.ViewerID(c), noteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(note)
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	thumbnailURL, err := uploadFormFile(c, h.storage, "thumbnail", "thumbnails")
	if err != nil {
		return badRequest(c, "Failed to upload thumbnail")
	}

	note, err := h.noteService.Update(c.Context(), who.ID, noteID, &req, thumbnailURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Update note successful",
		Data:    note,
	})
}

func (h *NoteHandler) ToggleUpvote(c *fiber.Ctx) error {
	return h.toggle(c, "upvote", h.interactionService.ToggleUpvote,
		"Note upvoted successful", "Remove upvoted from note successful")
}

func (h *NoteHandler) ToggleDownvote(c *fiber.Ctx) error {
	return h.toggle(c, "downvote", h.interactionService.ToggleDownvote,
		"Note downvoted successful", "Remove downvoted from note successful")
}

func (h *NoteHandler) ToggleFavorite(c *fiber.Ctx) error {
	return h.toggle(c, "favorite", h.interactionService.ToggleFavorite,
		"Note favorited successfully", "Note unfavorited successfully")
}

func (h *NoteHandler) ToggleSave(c *fiber.Ctx) error {
	return h.toggle(c, "save", h.interactionService.ToggleSave,
		"Note saved successfully", "Note unsaved successfully")
}

func (h *NoteHandler) toggle(
	c *fiber.Ctx,
	action string,
	fn func(ctx context.Context, userID, noteID uuid.UUID) (*services.ToggleResult, error),
	appliedMessage, removedMessage string,
) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := fn(c.Context(), who.ID, noteID)
	if err != nil {
		return respondError(c, err)
	}

	outcome, message := "removed", removedMessage
	if result.Applied {
		outcome, message = "applied", appliedMessage
	}
	middleware.ToggleTotal.WithLabelValues(action, outcome).Inc()

	return c.JSON(dto.MessageResponse{
		Message: message,
		Data:    result.Interaction,
	})
}

func (h *NoteHandler) GetInteraction(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	row, err := h.interactionService.GetInteraction(c.Context(), who.ID, noteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(row)
}

func (h *NoteHandler) GetCounter(c *fiber.Ctx) error {
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	counter, err := h.interactionService.GetCounter(c.Context(), noteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counter)
}

func (h *NoteHandler) AddAttachments(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	noteID, err := parseUUIDParam(c, "noteId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	attachments, err := h.uploadAttachments(c)
	if err != nil {
		return badRequest(c, "Failed to upload attachments")
	}
	if len(attachments) == 0 {
		return badRequest(c, "No attachments provided")
	}

	created, err := h.noteService.AddAttachments(c.Context(), who.ID, noteID, attachments)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{
		Message: "Attachments added successfully",
		Data:    created,
	})
}

func (h *NoteHandler) DeleteAttachment(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	attachmentID, err := parseUUIDParam(c, "attachmentId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.noteService.DeleteAttachment(c.Context(), who.ID, attachmentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Attachment deleted successfully"})
}

func parseNoteQuery(c *fiber.Ctx) dto.NoteListQuery {
	var q dto.NoteListQuery
	_ = c.QueryParser(&q)
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)
	return q
}

// restrict blanks out keys outside the endpoint's accepted subset so the
// resolver falls back to its default.
func restrict(key string, allowed []string) string {
	for _, a := range allowed {
		if key == a {
			return key
		}
	}
	return ""
}

func (h *NoteHandler) uploadAttachments(c *fiber.Ctx) ([]models.NoteAttachment, error) {
	if h.storage == nil {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["attachments"]
	attachments := make([]models.NoteAttachment, 0, len(files))
	for _, fileHeader := range files {
		url, err := uploadOne(c, h.storage, fileHeader, "attachments")
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, models.NoteAttachment{
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Size:     fileHeader.Size,
			URL:      url,
		})
	}
	return attachments, nil
}
