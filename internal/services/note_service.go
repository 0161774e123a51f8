package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/catatanku/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteService struct {
	db      *gorm.DB
	storage *storage.Client
}

func NewNoteService(db *gorm.DB, st *storage.Client) *NoteService {
	return &NoteService{db: db, storage: st}
}

// NoteList is the result of any listing call: the page of notes decorated
// with the viewer's interaction rows, plus the keys the query resolved to.
type NoteList struct {
	Notes    []dto.NoteWithViewerState
	Total    int64
	Category string
	Order    string
}

// Create inserts the note, its counter row, the owner's READ_WRITE grant and
// any initial READ grants in one transaction.
func (s *NoteService) Create(ctx context.Context, ownerID uuid.UUID, req *dto.CreateNoteRequest, thumbnailURL string, attachments []models.NoteAttachment) (*models.Note, error) {
	var note models.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.StudyID != nil {
			var count int64
			if err := tx.Model(&models.Study{}).Where("id = ?", *req.StudyID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrStudyNotFound
			}
		}

		var tags []models.Tag
		if len(req.TagIDs) > 0 {
			if err := tx.Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(req.TagIDs) {
				return ErrTagNotFound
			}
		}

		note = models.Note{
			UserID:         ownerID,
			StudyID:        req.StudyID,
			Title:          req.Title,
			Content:        req.Content,
			IsPrivate:      req.IsPrivate,
			ThumbnailImage: thumbnailURL,
			Tags:           tags,
			Attachments:    attachments,
		}
		if err := tx.Create(&note).Error; err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		if err := tx.Create(&models.NoteInteractionCounter{NoteID: note.ID}).Error; err != nil {
			return fmt.Errorf("failed to create counter: %w", err)
		}

		grants := []models.NotePermission{{
			UserID:     ownerID,
			NoteID:     note.ID,
			Permission: models.PermissionReadWrite,
		}}
		if req.IsPrivate {
			for _, userID := range req.SharedWith {
				if userID == ownerID {
					continue
				}
				grants = append(grants, models.NotePermission{
					UserID:     userID,
					NoteID:     note.ID,
					Permission: models.PermissionRead,
				})
			}
		}
		if err := tx.Create(&grants).Error; err != nil {
			return fmt.Errorf("failed to create permissions: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadFull(ctx, &note.UserID, note.ID)
}

// List pages over the notes visible to the viewer. Unknown category or order
// keys fall back to home/new; the resolved keys are reported back so handlers
// can echo them.
func (s *NoteService) List(ctx context.Context, viewerID *uuid.UUID, category, order string, page, limit int, extra ...scopes.Scope) (*NoteList, error) {
	categoryScope, resolvedCategory := scopes.ResolveNoteCategory(viewerID, category)
	orderScope, resolvedOrder := scopes.ResolveNoteOrder(viewerID, order)

	filters := append([]scopes.Scope{categoryScope}, extra...)

	var total int64
	countQuery := s.db.WithContext(ctx).Model(&models.Note{})
	for _, sc := range filters {
		countQuery = sc(countQuery)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Note{})
	for _, sc := range append(filters, orderScope) {
		query = sc(query)
	}
	query = query.
		Preload("User").
		Preload("Study").
		Preload("Tags").
		Preload("Attachments").
		Preload("Counter")
	if viewerID != nil {
		query = query.Preload("Interactions", "user_id = ?", *viewerID)
	}

	var notes []models.Note
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&notes).Error; err != nil {
		return nil, err
	}

	return &NoteList{
		Notes:    decorate(notes),
		Total:    total,
		Category: resolvedCategory,
		Order:    resolvedOrder,
	}, nil
}

// ListByUser narrows List to one author's notes.
func (s *NoteService) ListByUser(ctx context.Context, viewerID *uuid.UUID, authorID uuid.UUID, category, order string, page, limit int) (*NoteList, error) {
	if err := s.ensureUser(ctx, authorID); err != nil {
		return nil, err
	}
	author := func(db *gorm.DB) *gorm.DB {
		return db.Where("notes.user_id = ?", authorID)
	}
	return s.List(ctx, viewerID, category, order, page, limit, author)
}

// ListByTag narrows List to notes carrying the named tag.
func (s *NoteService) ListByTag(ctx context.Context, viewerID *uuid.UUID, tagName, category, order string, page, limit int) (*NoteList, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("name = ?", tagName).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	tagged := func(db *gorm.DB) *gorm.DB {
		return db.Where("EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = notes.id AND nt.tag_id = ?)", tag.ID)
	}
	return s.List(ctx, viewerID, category, order, page, limit, tagged)
}

// ListByStudy narrows List to notes under the named study.
func (s *NoteService) ListByStudy(ctx context.Context, viewerID *uuid.UUID, studyName, category, order string, page, limit int) (*NoteList, error) {
	var study models.Study
	if err := s.db.WithContext(ctx).Where("name = ?", studyName).First(&study).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}
	inStudy := func(db *gorm.DB) *gorm.DB {
		return db.Where("notes.study_id = ?", study.ID)
	}
	return s.List(ctx, viewerID, category, order, page, limit, inStudy)
}

// GetByID returns a single note if the viewer may read it: public notes for
// everyone, private notes only with a grant. Invisible and missing notes are
// indistinguishable to the caller.
func (s *NoteService) GetByID(ctx context.Context, viewerID *uuid.UUID, noteID uuid.UUID) (*dto.NoteWithViewerState, error) {
	return s.loadVisible(ctx, viewerID, noteID)
}

// Update rewrites the note fields and tag set. Requires a READ_WRITE grant.
// Turning a private note public purges its READ grants; READ_WRITE rows
// survive so contributors keep write access.
func (s *NoteService) Update(ctx context.Context, actorID, noteID uuid.UUID, req *dto.UpdateNoteRequest, thumbnailURL string) (*dto.NoteWithViewerState, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var note models.Note
		err := tx.First(&note, "id = ?", noteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		if err != nil {
			return err
		}

		if err := requireReadWrite(tx, actorID, noteID); err != nil {
			return err
		}

		if req.StudyID != nil {
			var count int64
			if err := tx.Model(&models.Study{}).Where("id = ?", *req.StudyID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrStudyNotFound
			}
		}

		wasPrivate := note.IsPrivate

		updates := map[string]interface{}{
			"title":      req.Title,
			"content":    req.Content,
			"is_private": req.IsPrivate,
			"study_id":   req.StudyID,
		}
		if thumbnailURL != "" {
			updates["thumbnail_image"] = thumbnailURL
		}
		if err := tx.Model(&note).Updates(updates).Error; err != nil {
			return err
		}

		var tags []models.Tag
		if len(req.TagIDs) > 0 {
			if err := tx.Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(req.TagIDs) {
				return ErrTagNotFound
			}
		}
		if err := tx.Model(&note).Association("Tags").Replace(tags); err != nil {
			return err
		}

		if wasPrivate && !req.IsPrivate {
			if err := tx.Where("note_id = ? AND permission = ?", noteID, models.PermissionRead).
				Delete(&models.NotePermission{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadVisible(ctx, &actorID, noteID)
}

// AddAttachments appends already-uploaded files to a note. READ_WRITE only.
func (s *NoteService) AddAttachments(ctx context.Context, actorID, noteID uuid.UUID, attachments []models.NoteAttachment) ([]models.NoteAttachment, error) {
	if len(attachments) == 0 {
		return nil, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Note{}).Where("id = ?", noteID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNoteNotFound
		}
		if err := requireReadWrite(tx, actorID, noteID); err != nil {
			return err
		}

		for i := range attachments {
			attachments[i].NoteID = noteID
		}
		return tx.Create(&attachments).Error
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteAttachment removes the record and then the stored object. Storage
// errors after the commit are logged by the caller but do not undo the delete.
func (s *NoteService) DeleteAttachment(ctx context.Context, actorID, attachmentID uuid.UUID) error {
	var attachment models.NoteAttachment
	err := s.db.WithContext(ctx).First(&attachment, "id = ?", attachmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAttachmentNotFound
	}
	if err != nil {
		return err
	}

	if err := requireReadWrite(s.db.WithContext(ctx), actorID, attachment.NoteID); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&attachment).Error; err != nil {
		return err
	}

	if s.storage != nil {
		return s.storage.Delete(ctx, attachment.URL)
	}
	return nil
}

func (s *NoteService) loadVisible(ctx context.Context, viewerID *uuid.UUID, noteID uuid.UUID) (*dto.NoteWithViewerState, error) {
	query := s.db.WithContext(ctx).Where("notes.id = ?", noteID)
	if viewerID == nil {
		query = query.Where("notes.is_private = ?", false)
	} else {
		query = query.Where(
			"notes.is_private = ? OR notes.user_id = ? OR EXISTS (SELECT 1 FROM note_permissions np WHERE np.note_id = notes.id AND np.user_id = ?)",
			false, *viewerID, *viewerID,
		)
	}

	query = query.
		Preload("User").
		Preload("Study").
		Preload("Tags").
		Preload("Attachments").
		Preload("Permissions.User").
		Preload("Counter")
	if viewerID != nil {
		query = query.Preload("Interactions", "user_id = ?", *viewerID)
	}

	var note models.Note
	if err := query.First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	decorated := decorate([]models.Note{note})
	return &decorated[0], nil
}

func (s *NoteService) loadFull(ctx context.Context, viewerID *uuid.UUID, noteID uuid.UUID) (*models.Note, error) {
	withState, err := s.loadVisible(ctx, viewerID, noteID)
	if err != nil {
		return nil, err
	}
	return &withState.Note, nil
}

func (s *NoteService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func requireReadWrite(tx *gorm.DB, actorID, noteID uuid.UUID) error {
	var count int64
	err := tx.Model(&models.NotePermission{}).
		Where("user_id = ? AND note_id = ? AND permission = ?", actorID, noteID, models.PermissionReadWrite).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrForbidden
	}
	return nil
}

// decorate lifts the viewer's preloaded interaction row onto each note.
func decorate(notes []models.Note) []dto.NoteWithViewerState {
	out := make([]dto.NoteWithViewerState, len(notes))
	for i, note := range notes {
		var interaction *models.NoteInteraction
		if len(note.Interactions) > 0 {
			row := note.Interactions[0]
			interaction = &row
		}
		note.Interactions = nil
		out[i] = dto.NoteWithViewerState{Note: note, Interaction: interaction}
	}
	return out
}
