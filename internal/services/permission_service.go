package services

import (
	"context"
	"errors"

	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionService manages per-note grants. Owners always hold an explicit
// READ_WRITE row created with the note, so authorization checks only ever
// consult the grant table.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

func (s *PermissionService) List(ctx context.Context, noteID uuid.UUID, page, limit int) ([]models.NotePermission, int64, error) {
	if err := s.ensureNote(ctx, noteID); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.NotePermission{}).
		Where("note_id = ?", noteID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var grants []models.NotePermission
	err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Preload("User").
		Order("created_at ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&grants).Error
	if err != nil {
		return nil, 0, err
	}
	return grants, total, nil
}

// Add grants access to a new user. Only the note owner may add grants, and an
// existing grant is a conflict; use Upsert to overwrite.
func (s *PermissionService) Add(ctx context.Context, actorID, noteID, granteeID uuid.UUID, permission string) (*models.NotePermission, error) {
	if err := s.requireOwner(ctx, actorID, noteID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, granteeID); err != nil {
		return nil, err
	}

	var existing models.NotePermission
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", granteeID, noteID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyGrantee
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	grant := models.NotePermission{
		UserID:     granteeID,
		NoteID:     noteID,
		Permission: normalizePermission(permission),
	}
	if err := s.db.WithContext(ctx).Create(&grant).Error; err != nil {
		return nil, err
	}
	return &grant, nil
}

// Upsert creates or overwrites a grant in one statement. Any holder of
// READ_WRITE on the note may use it, not just the owner.
func (s *PermissionService) Upsert(ctx context.Context, actorID, noteID, granteeID uuid.UUID, permission string) (*models.NotePermission, error) {
	if err := s.requireReadWrite(ctx, actorID, noteID); err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, granteeID); err != nil {
		return nil, err
	}

	grant := models.NotePermission{
		UserID:     granteeID,
		NoteID:     noteID,
		Permission: normalizePermission(permission),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"permission", "updated_at"}),
	}).Create(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Delete revokes a grant. Owner only; the owner's own row is not revocable
// since the note would become unreachable to its creator.
func (s *PermissionService) Delete(ctx context.Context, actorID, noteID, granteeID uuid.UUID) error {
	if err := s.requireOwner(ctx, actorID, noteID); err != nil {
		return err
	}
	if granteeID == actorID {
		return ErrForbidden
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", granteeID, noteID).
		Delete(&models.NotePermission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGrantNotFound
	}
	return nil
}

// HasReadWrite reports whether the user holds a READ_WRITE grant on the note.
func (s *PermissionService) HasReadWrite(ctx context.Context, userID, noteID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.NotePermission{}).
		Where("user_id = ? AND note_id = ? AND permission = ?", userID, noteID, models.PermissionReadWrite).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *PermissionService) requireOwner(ctx context.Context, actorID, noteID uuid.UUID) error {
	var note models.Note
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&note, "id = ?", noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return err
	}
	if note.UserID != actorID {
		return ErrForbidden
	}
	return nil
}

func (s *PermissionService) requireReadWrite(ctx context.Context, actorID, noteID uuid.UUID) error {
	if err := s.ensureNote(ctx, noteID); err != nil {
		return err
	}
	ok, err := s.HasReadWrite(ctx, actorID, noteID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *PermissionService) ensureNote(ctx context.Context, noteID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", noteID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *PermissionService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func normalizePermission(p string) string {
	if p == models.PermissionReadWrite {
		return models.PermissionReadWrite
	}
	return models.PermissionRead
}
