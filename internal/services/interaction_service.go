package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/catatanku/backend/internal/cache"
	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionService owns the per-user interaction ledger and the
// denormalized counters. Every toggle runs the row mutation and the counter
// delta in one transaction so the counts never drift from the rows.
type InteractionService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewInteractionService(db *gorm.DB, c *cache.Cache) *InteractionService {
	return &InteractionService{db: db, cache: c}
}

// ToggleResult reports the interaction row after a toggle. Applied is true
// when the toggle ended with the flag set, false when it cleared it.
type ToggleResult struct {
	Interaction models.NoteInteraction
	Applied     bool
}

func (s *InteractionService) ToggleUpvote(ctx context.Context, userID, noteID uuid.UUID) (*ToggleResult, error) {
	return s.toggleVote(ctx, userID, noteID, true)
}

func (s *InteractionService) ToggleDownvote(ctx context.Context, userID, noteID uuid.UUID) (*ToggleResult, error) {
	return s.toggleVote(ctx, userID, noteID, false)
}

func (s *InteractionService) ToggleFavorite(ctx context.Context, userID, noteID uuid.UUID) (*ToggleResult, error) {
	return s.toggleFlag(ctx, userID, noteID, "is_favorited", "favorited_count")
}

func (s *InteractionService) ToggleSave(ctx context.Context, userID, noteID uuid.UUID) (*ToggleResult, error) {
	return s.toggleFlag(ctx, userID, noteID, "is_saved", "saved_count")
}

// toggleVote flips one vote direction. Setting a direction always clears the
// opposite one, adjusting both counters in the same transaction.
func (s *InteractionService) toggleVote(ctx context.Context, userID, noteID uuid.UUID, up bool) (*ToggleResult, error) {
	column, counter := "is_upvoted", "upvoted_count"
	otherColumn, otherCounter := "is_downvoted", "downvoted_count"
	if !up {
		column, counter, otherColumn, otherCounter = otherColumn, otherCounter, column, counter
	}

	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.loadRow(tx, userID, noteID)
		if err != nil {
			return err
		}

		had := flagValue(row, column)
		hadOther := flagValue(row, otherColumn)

		setFlag(row, column, !had)
		if !had && hadOther {
			setFlag(row, otherColumn, false)
		}

		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("failed to save interaction: %w", err)
		}

		if had {
			if err := adjustCounter(tx, noteID, counter, -1); err != nil {
				return err
			}
		} else {
			if err := adjustCounter(tx, noteID, counter, +1); err != nil {
				return err
			}
			if hadOther {
				if err := adjustCounter(tx, noteID, otherCounter, -1); err != nil {
					return err
				}
			}
		}

		result = ToggleResult{Interaction: *row, Applied: !had}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCounter(ctx, noteID)
	return &result, nil
}

// toggleFlag flips favorite or save, which are independent of the vote pair.
func (s *InteractionService) toggleFlag(ctx context.Context, userID, noteID uuid.UUID, column, counter string) (*ToggleResult, error) {
	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.loadRow(tx, userID, noteID)
		if err != nil {
			return err
		}

		had := flagValue(row, column)
		setFlag(row, column, !had)

		if err := tx.Save(row).Error; err != nil {
			return fmt.Errorf("failed to save interaction: %w", err)
		}

		delta := +1
		if had {
			delta = -1
		}
		if err := adjustCounter(tx, noteID, counter, delta); err != nil {
			return err
		}

		result = ToggleResult{Interaction: *row, Applied: !had}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCounter(ctx, noteID)
	return &result, nil
}

// loadRow fetches the viewer's interaction row, seeding a zeroed one on the
// first interaction with the note.
func (s *InteractionService) loadRow(tx *gorm.DB, userID, noteID uuid.UUID) (*models.NoteInteraction, error) {
	var row models.NoteInteraction
	err := tx.Where("user_id = ? AND note_id = ?", userID, noteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return seedRow(tx, userID, noteID)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// seedRow inserts the zeroed interaction row as an upsert on the composite
// (user_id, note_id) key. A conflict means an identical request already
// inserted the row between our lookup and the insert; do nothing and re-read
// instead of failing on the duplicate key.
func seedRow(tx *gorm.DB, userID, noteID uuid.UUID) (*models.NoteInteraction, error) {
	seed := models.NoteInteraction{UserID: userID, NoteID: noteID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("failed to create interaction: %w", err)
	}

	var row models.NoteInteraction
	if err := tx.Where("user_id = ? AND note_id = ?", userID, noteID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// adjustCounter applies a relative delta to one counter column. A missing
// counter row means the note does not exist; returning the error rolls back
// the row mutation too.
func adjustCounter(tx *gorm.DB, noteID uuid.UUID, column string, delta int) error {
	res := tx.Model(&models.NoteInteractionCounter{}).
		Where("note_id = ?", noteID).
		Update(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func flagValue(row *models.NoteInteraction, column string) bool {
	switch column {
	case "is_upvoted":
		return row.IsUpvoted
	case "is_downvoted":
		return row.IsDownvoted
	case "is_favorited":
		return row.IsFavorited
	default:
		return row.IsSaved
	}
}

func setFlag(row *models.NoteInteraction, column string, v bool) {
	switch column {
	case "is_upvoted":
		row.IsUpvoted = v
	case "is_downvoted":
		row.IsDownvoted = v
	case "is_favorited":
		row.IsFavorited = v
	default:
		row.IsSaved = v
	}
}

// GetInteraction returns the viewer's interaction row for a note, or a zeroed
// row when the viewer never interacted with it.
func (s *InteractionService) GetInteraction(ctx context.Context, userID, noteID uuid.UUID) (*models.NoteInteraction, error) {
	var row models.NoteInteraction
	err := s.db.WithContext(ctx).Where("user_id = ? AND note_id = ?", userID, noteID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.NoteInteraction{UserID: userID, NoteID: noteID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetCounter reads a note's counter through the cache.
func (s *InteractionService) GetCounter(ctx context.Context, noteID uuid.UUID) (*models.NoteInteractionCounter, error) {
	if counter, ok := s.cache.GetCounter(ctx, noteID); ok {
		return counter, nil
	}

	var counter models.NoteInteractionCounter
	err := s.db.WithContext(ctx).Where("note_id = ?", noteID).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cache.SetCounter(ctx, &counter)
	return &counter, nil
}
