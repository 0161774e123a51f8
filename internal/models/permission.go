package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PermissionRead      = "READ"
	PermissionReadWrite = "READ_WRITE"
)

// NotePermission grants a user access to a private note. The owner gets an
// explicit READ_WRITE row at note creation. Rows only carry meaning while the
// note is private, except READ_WRITE rows which represent co-authorship and
// survive the note going public.
type NotePermission struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	NoteID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	Permission string    `gorm:"size:20;not null;default:'READ'" json:"permission"`
	User       *User     `json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
