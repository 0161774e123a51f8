package services

import (
	"context"
	"testing"

	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollowRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ctx := context.Background()

	followed, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, followed)

	followers, total, err := svc.Followers(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	followed, err = svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, followed)

	_, total, err = svc.Followers(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSelfFollowRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.ToggleFollow(context.Background(), alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.ToggleFollow(context.Background(), alice.ID, uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowersAndFollowingsAreDirectional(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followings, total, err := svc.Followings(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, followings, 1)
	assert.Equal(t, "bob", followings[0].Username)

	_, total, err = svc.Followings(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSearchMatchesSubstringCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	createUser(t, db, "Alice")
	createUser(t, db, "alicia")
	createUser(t, db, "bob")

	users, total, err := svc.Search(context.Background(), "ALI", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestDeleteUserKeepsCountersConsistent(t *testing.T) {
	db := newTestDB(t)
	userSvc := NewUserService(db)
	interactionSvc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	voter := createUser(t, db, "voter")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	_, err := interactionSvc.ToggleUpvote(ctx, voter.ID, note.ID)
	require.NoError(t, err)
	_, err = interactionSvc.ToggleSave(ctx, voter.ID, note.ID)
	require.NoError(t, err)
	require.Equal(t, 1, loadCounter(t, db, note.ID).UpvotedCount)

	require.NoError(t, userSvc.Delete(ctx, voter.ID))

	counter := loadCounter(t, db, note.ID)
	assert.Equal(t, 0, counter.UpvotedCount)
	assert.Equal(t, 0, counter.SavedCount)

	_, err = userSvc.GetByID(ctx, voter.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserRemovesOwnNotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	owner := createUser(t, db, "owner")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, owner.ID))

	var count int64
	require.NoError(t, db.Model(&models.Note{}).Where("id = ?", note.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.NoteInteractionCounter{}).Where("note_id = ?", note.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.NotePermission{}).Where("note_id = ?", note.ID).Count(&count).Error)
	assert.Zero(t, count)
}
