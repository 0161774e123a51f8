package dto

import (
	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
)

// CreateNoteRequest is the non-file part of the multipart create form.
type CreateNoteRequest struct {
	Title     string      `form:"title" json:"title" validate:"required,max=255"`
	Content   string      `form:"content" json:"content" validate:"required"`
	IsPrivate bool        `form:"isPrivate" json:"is_private"`
	StudyID   *uuid.UUID  `form:"studyId" json:"study_id"`
	TagIDs    []uuid.UUID `form:"tags" json:"tags"`
	// Users granted READ on creation; only meaningful for private notes.
	SharedWith []uuid.UUID `form:"sharedWith" json:"shared_with"`
}

type UpdateNoteRequest struct {
	Title     string      `form:"title" json:"title" validate:"required,max=255"`
	Content   string      `form:"content" json:"content" validate:"required"`
	IsPrivate bool        `form:"isPrivate" json:"is_private"`
	StudyID   *uuid.UUID  `form:"studyId" json:"study_id"`
	TagIDs    []uuid.UUID `form:"tags" json:"tags"`
}

// NoteListQuery is the shared query shape of every note listing endpoint.
type NoteListQuery struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Category string `query:"category"`
	Order    string `query:"order"`
}

// NoteWithViewerState decorates a note with the viewer's own interaction row.
type NoteWithViewerState struct {
	models.Note
	Interaction *models.NoteInteraction `json:"interaction,omitempty"`
}

type AddPermissionRequest struct {
	UserID     uuid.UUID `json:"userId" validate:"required"`
	Permission string    `json:"permission" validate:"omitempty,oneof=READ READ_WRITE"`
}

type DeletePermissionRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}
