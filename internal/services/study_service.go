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

type StudyService struct {
	db *gorm.DB
}

func NewStudyService(db *gorm.DB) *StudyService {
	return &StudyService{db: db}
}

func (s *StudyService) Create(ctx context.Context, req *dto.CreateStudyRequest, imageURL string) (*models.Study, error) {
	var existing models.Study
	if err := s.db.WithContext(ctx).Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrStudyNameTaken
	}

	study := models.Study{Name: req.Name, Description: req.Description, Image: imageURL}
	if err := s.db.WithContext(ctx).Create(&study).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

func (s *StudyService) List(ctx context.Context, q *dto.LookupListQuery) ([]models.Study, int64, string, error) {
	orderScope, resolvedOrder := scopes.Resolve(scopes.StudyOrderConditions(), q.Order, scopes.OrderNew)

	base := s.db.WithContext(ctx).Model(&models.Study{})
	if q.Name != "" {
		base = base.Where("LOWER(studies.name) LIKE ?", "%"+strings.ToLower(q.Name)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, "", err
	}

	var studies []models.Study
	err := orderScope(base.Session(&gorm.Session{})).
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&studies).Error
	if err != nil {
		return nil, 0, "", err
	}

	if err := s.fillNoteCounts(ctx, studies); err != nil {
		return nil, 0, "", err
	}
	return studies, total, resolvedOrder, nil
}

func (s *StudyService) GetByID(ctx context.Context, studyID uuid.UUID) (*models.Study, error) {
	var study models.Study
	err := s.db.WithContext(ctx).First(&study, "id = ?", studyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudyNotFound
	}
	if err != nil {
		return nil, err
	}

	studies := []models.Study{study}
	if err := s.fillNoteCounts(ctx, studies); err != nil {
		return nil, err
	}
	return &studies[0], nil
}

func (s *StudyService) Update(ctx context.Context, studyID uuid.UUID, req *dto.UpdateStudyRequest, imageURL string) (*models.Study, error) {
	study, err := s.GetByID(ctx, studyID)
	if err != nil {
		return nil, err
	}

	var clash models.Study
	err = s.db.WithContext(ctx).Where("name = ? AND id <> ?", req.Name, studyID).First(&clash).Error
	if err == nil {
		return nil, ErrStudyNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	updates := map[string]interface{}{"name": req.Name, "description": req.Description}
	if imageURL != "" {
		updates["image"] = imageURL
	}
	if err := s.db.WithContext(ctx).Model(study).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, studyID)
}

// Delete removes the study; its notes survive with study_id cleared.
func (s *StudyService) Delete(ctx context.Context, studyID uuid.UUID) error {
	if _, err := s.GetByID(ctx, studyID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Note{}).
			Where("study_id = ?", studyID).
			Update("study_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Study{}, "id = ?", studyID).Error
	})
}

func (s *StudyService) fillNoteCounts(ctx context.Context, studies []models.Study) error {
	if len(studies) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(studies))
	for i, study := range studies {
		ids[i] = study.ID
	}

	type row struct {
		StudyID uuid.UUID
		Count   int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Note{}).
		Select("study_id", "COUNT(id) AS count").
		Where("study_id IN ?", ids).
		Group("study_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.StudyID] = r.Count
	}
	for i := range studies {
		studies[i].NoteCount = counts[studies[i].ID]
	}
	return nil
}
