package services

import (
	"context"
	"testing"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagCreateConflictAndNoteCount(t *testing.T) {
	db := newTestDB(t)
	tagSvc := NewTagService(db)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	tag, err := tagSvc.Create(ctx, &dto.CreateTagRequest{Name: "math"})
	require.NoError(t, err)

	_, err = tagSvc.Create(ctx, &dto.CreateTagRequest{Name: "math"})
	require.ErrorIs(t, err, ErrTagNameTaken)

	noteSvc := NewNoteService(db, nil)
	_, err = noteSvc.Create(ctx, owner.ID, &dto.CreateNoteRequest{
		Title:   "tagged",
		Content: "body",
		TagIDs:  []uuid.UUID{tag.ID},
	}, "", nil)
	require.NoError(t, err)

	got, err := tagSvc.GetByID(ctx, tag.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.NoteCount)
}

func TestTagDeleteDetachesNotes(t *testing.T) {
	db := newTestDB(t)
	tagSvc := NewTagService(db)
	noteSvc := NewNoteService(db, nil)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	tag, err := tagSvc.Create(ctx, &dto.CreateTagRequest{Name: "math"})
	require.NoError(t, err)
	note, err := noteSvc.Create(ctx, owner.ID, &dto.CreateNoteRequest{
		Title:   "tagged",
		Content: "body",
		TagIDs:  []uuid.UUID{tag.ID},
	}, "", nil)
	require.NoError(t, err)

	require.NoError(t, tagSvc.Delete(ctx, tag.ID))

	got, err := noteSvc.GetByID(ctx, &owner.ID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestStudyDeleteKeepsNotes(t *testing.T) {
	db := newTestDB(t)
	studySvc := NewStudyService(db)
	noteSvc := NewNoteService(db, nil)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	study, err := studySvc.Create(ctx, &dto.CreateStudyRequest{Name: "cs"}, "")
	require.NoError(t, err)
	note, err := noteSvc.Create(ctx, owner.ID, &dto.CreateNoteRequest{
		Title:   "in-study",
		Content: "body",
		StudyID: &study.ID,
	}, "", nil)
	require.NoError(t, err)

	require.NoError(t, studySvc.Delete(ctx, study.ID))

	got, err := noteSvc.GetByID(ctx, &owner.ID, note.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StudyID)
}

func TestListNotesByTagAndStudyName(t *testing.T) {
	db := newTestDB(t)
	tagSvc := NewTagService(db)
	studySvc := NewStudyService(db)
	noteSvc := NewNoteService(db, nil)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	tag, err := tagSvc.Create(ctx, &dto.CreateTagRequest{Name: "math"})
	require.NoError(t, err)
	study, err := studySvc.Create(ctx, &dto.CreateStudyRequest{Name: "cs"}, "")
	require.NoError(t, err)

	_, err = noteSvc.Create(ctx, owner.ID, &dto.CreateNoteRequest{
		Title:   "both",
		Content: "body",
		StudyID: &study.ID,
		TagIDs:  []uuid.UUID{tag.ID},
	}, "", nil)
	require.NoError(t, err)
	createNote(t, db, owner, "neither", false)

	byTag, err := noteSvc.ListByTag(ctx, nil, "math", "", scopes.OrderNew, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"both"}, titles(byTag))

	byStudy, err := noteSvc.ListByStudy(ctx, nil, "cs", "", scopes.OrderNew, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"both"}, titles(byStudy))

	_, err = noteSvc.ListByTag(ctx, nil, "nope", "", scopes.OrderNew, 1, 10)
	require.ErrorIs(t, err, ErrTagNotFound)
	_, err = noteSvc.ListByStudy(ctx, nil, "nope", "", scopes.OrderNew, 1, 10)
	require.ErrorIs(t, err, ErrStudyNotFound)
}

func TestStudyOrderByNoteCount(t *testing.T) {
	db := newTestDB(t)
	studySvc := NewStudyService(db)
	noteSvc := NewNoteService(db, nil)
	owner := createUser(t, db, "owner")
	ctx := context.Background()

	empty, err := studySvc.Create(ctx, &dto.CreateStudyRequest{Name: "empty"}, "")
	require.NoError(t, err)
	busy, err := studySvc.Create(ctx, &dto.CreateStudyRequest{Name: "busy"}, "")
	require.NoError(t, err)
	_ = empty

	for i := 0; i < 2; i++ {
		_, err = noteSvc.Create(ctx, owner.ID, &dto.CreateNoteRequest{
			Title:   "n",
			Content: "body",
			StudyID: &busy.ID,
		}, "", nil)
		require.NoError(t, err)
	}

	studies, _, order, err := studySvc.List(ctx, &dto.LookupListQuery{
		Page: 1, Limit: 10, Order: scopes.OrderMostNotes,
	})
	require.NoError(t, err)
	assert.Equal(t, scopes.OrderMostNotes, order)
	require.Len(t, studies, 2)
	assert.Equal(t, "busy", studies[0].Name)
	assert.EqualValues(t, 2, studies[0].NoteCount)
}

func TestNoteCreateWithUnknownTagFails(t *testing.T) {
	db := newTestDB(t)
	noteSvc := NewNoteService(db, nil)
	owner := createUser(t, db, "owner")

	_, err := noteSvc.Create(context.Background(), owner.ID, &dto.CreateNoteRequest{
		Title:   "note",
		Content: "body",
		TagIDs:  []uuid.UUID{uuid.New()},
	}, "", nil)
	require.ErrorIs(t, err, ErrTagNotFound)

	// The failed transaction leaves nothing behind.
	var count int64
	require.NoError(t, db.Model(&models.Note{}).Count(&count).Error)
	assert.Zero(t, count)
}
