package services

import (
	"context"
	"errors"
	"strings"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) Create(ctx context.Context, req *dto.CreateTagRequest) (*models.Tag, error) {
	var existing models.Tag
	if err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrTagNameTaken
	}

	tag := models.Tag{Name: req.Name, Description: req.Description}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// List pages over tags with optional name filtering, each annotated with how
// many notes reference it.
func (s *TagService) List(ctx context.Context, q *dto.LookupListQuery) ([]models.Tag, int64, string, error) {
	orderScope, resolvedOrder := scopes.Resolve(scopes.TagOrderConditions(), q.Order, scopes.OrderNew)

	base := s.db.WithContext(ctx).Model(&models.Tag{})
	if q.Name != "" {
		base = base.Where("LOWER(tags.name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, "", err
	}

	var tags []models.Tag
	err := orderScope(base.Session(&gorm.Session{})).
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&tags).Error
	if err != nil {
		return nil, 0, "", err
	}

	if err := s.fillNoteCounts(ctx, tags); err != nil {
		return nil, 0, "", err
	}
	return tags, total, resolvedOrder, nil
}

func (s *TagService) GetByID(ctx context.Context, tagID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	tags := []models.Tag{tag}
	if err := s.fillNoteCounts(ctx, tags); err != nil {
		return nil, err
	}
	return &tags[0], nil
}

func (s *TagService) Update(ctx context.Context, tagID uuid.UUID, req *dto.UpdateTagRequest) (*models.Tag, error) {
	tag, err := s.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}

	var clash models.Tag
	err = s.db.WithContext(ctx).Where("name = ? AND id <> ?", req.Name, tagID).First(&clash).Error
	if err == nil {
		return nil, ErrTagNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	updates := map[string]interface{}{"name": req.Name, "description": req.Description}
	if err := s.db.WithContext(ctx).Model(tag).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, tagID)
}

// Delete removes the tag and detaches it from every note.
func (s *TagService) Delete(ctx context.Context, tagID uuid.UUID) error {
	if _, err := s.GetByID(ctx, tagID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM note_tags WHERE tag_id = ?", tagID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", tagID).Error
	})
}

func (s *TagService) fillNoteCounts(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
	}

	type row struct {
		TagID uuid.UUID
		Count int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("note_tags").
		Select("tag_id", "COUNT(note_id) AS count").
		Where("tag_id IN ?", ids).
		Group("tag_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.TagID] = r.Count
	}
	for i := range tags {
		tags[i].NoteCount = counts[tags[i].ID]
	}
	return nil
}
