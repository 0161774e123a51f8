package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteInteraction is one row per (user, note). IsUpvoted and IsDownvoted are
// mutually exclusive; favorite and save are independent of the vote state.
type NoteInteraction struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	NoteID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	IsUpvoted   bool      `gorm:"not null;default:false" json:"is_upvoted"`
	IsDownvoted bool      `gorm:"not null;default:false" json:"is_downvoted"`
	IsFavorited bool      `gorm:"not null;default:false" json:"is_favorited"`
	IsSaved     bool      `gorm:"not null;default:false" json:"is_saved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NoteInteractionCounter denormalizes the per-note interaction totals.
// Each column must always equal the count of interaction rows with the
// corresponding flag set; every adjustment is a relative delta inside the
// same transaction as the row mutation.
type NoteInteractionCounter struct {
	NoteID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	UpvotedCount   int       `gorm:"not null;default:0" json:"upvoted_count"`
	DownvotedCount int       `gorm:"not null;default:0" json:"downvoted_count"`
	FavoritedCount int       `gorm:"not null;default:0" json:"favorited_count"`
	SavedCount     int       `gorm:"not null;default:0" json:"saved_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}
