package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is the central entity. Counters live in the 1:1 NoteInteractionCounter
// row, created in the same transaction as the note itself.
type Note struct {
	ID             uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID               `gorm:"type:uuid;not null;index" json:"user_id"`
	StudyID        *uuid.UUID              `gorm:"type:uuid;index" json:"study_id"`
	Title          string                  `gorm:"size:255;not null" json:"title"`
	Content        string                  `gorm:"type:text;not null" json:"content"`
	IsPrivate      bool                    `gorm:"not null;default:false;index" json:"is_private"`
	ThumbnailImage string                  `gorm:"size:512" json:"thumbnail_image"`
	User           *User                   `json:"user,omitempty"`
	Study          *Study                  `json:"study,omitempty"`
	Tags           []Tag                   `gorm:"many2many:note_tags" json:"tags,omitempty"`
	Attachments    []NoteAttachment        `json:"attachments,omitempty"`
	Permissions    []NotePermission        `json:"permissions,omitempty"`
	Interactions   []NoteInteraction       `json:"-"`
	Counter        *NoteInteractionCounter `json:"counter,omitempty"`
	CreatedAt      time.Time               `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

func (n *Note) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NoteAttachment stores the blob URL plus enough metadata to delete it again.
type NoteAttachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NoteID    uuid.UUID `gorm:"type:uuid;not null;index" json:"note_id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	MimeType  string    `gorm:"size:100" json:"mime_type"`
	Size      int64     `json:"size"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *NoteAttachment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
