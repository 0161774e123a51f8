package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleUpvoteRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	result, err := svc.ToggleUpvote(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.True(t, result.Interaction.IsUpvoted)
	assert.Equal(t, 1, loadCounter(t, db, note.ID).UpvotedCount)

	result, err = svc.ToggleUpvote(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, result.Applied)
	assert.False(t, result.Interaction.IsUpvoted)

	counter := loadCounter(t, db, note.ID)
	assert.Equal(t, 0, counter.UpvotedCount)
	assert.Equal(t, 0, counter.DownvotedCount)
}

func TestVoteSwapAdjustsBothCounters(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	_, err := svc.ToggleDownvote(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	counter := loadCounter(t, db, note.ID)
	assert.Equal(t, 0, counter.UpvotedCount)
	assert.Equal(t, 1, counter.DownvotedCount)

	// Upvoting while downvoted clears the downvote in the same transaction.
	result, err := svc.ToggleUpvote(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.True(t, result.Interaction.IsUpvoted)
	assert.False(t, result.Interaction.IsDownvoted)

	counter = loadCounter(t, db, note.ID)
	assert.Equal(t, 1, counter.UpvotedCount)
	assert.Equal(t, 0, counter.DownvotedCount)
}

func TestVotesNeverBothSet(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	toggles := []func(context.Context, uuid.UUID, uuid.UUID) (*ToggleResult, error){
		svc.ToggleUpvote, svc.ToggleDownvote, svc.ToggleUpvote,
		svc.ToggleUpvote, svc.ToggleDownvote, svc.ToggleDownvote,
	}
	for _, toggle := range toggles {
		result, err := toggle(ctx, reader.ID, note.ID)
		require.NoError(t, err)
		assert.False(t, result.Interaction.IsUpvoted && result.Interaction.IsDownvoted)
	}
}

func TestFavoriteIndependentOfVotes(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	_, err := svc.ToggleUpvote(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	result, err := svc.ToggleFavorite(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, result.Interaction.IsUpvoted)
	assert.True(t, result.Interaction.IsFavorited)

	// Removing the favorite leaves the vote untouched.
	result, err = svc.ToggleFavorite(ctx, reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, result.Interaction.IsUpvoted)
	assert.False(t, result.Interaction.IsFavorited)

	counter := loadCounter(t, db, note.ID)
	assert.Equal(t, 1, counter.UpvotedCount)
	assert.Equal(t, 0, counter.FavoritedCount)
}

func TestCounterMatchesConcurrentDistinctVoters(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	note := createNote(t, db, owner, "note", false)
	ctx := context.Background()

	const voters = 25
	ids := make([]uuid.UUID, voters)
	for i := range ids {
		ids[i] = createUser(t, db, fmt.Sprintf("voter%d", i)).ID
	}

	// All voters upvote at once. Relative-delta counter updates make the
	// final count independent of interleaving; a read-modify-write would
	// lose updates here.
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for _, id := range ids {
		wg.Add(1)
		go func(voterID uuid.UUID) {
			defer wg.Done()
			_, err := svc.ToggleUpvote(ctx, voterID, note.ID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, voters, loadCounter(t, db, note.ID).UpvotedCount)
}

func TestFirstToggleToleratesExistingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)

	// A duplicate identical request can leave the zeroed row behind before
	// this toggle runs; the toggle must use it rather than fail.
	require.NoError(t, db.Create(&models.NoteInteraction{
		UserID: reader.ID, NoteID: note.ID,
	}).Error)

	result, err := svc.ToggleUpvote(context.Background(), reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 1, loadCounter(t, db, note.ID).UpvotedCount)
}

func TestSeedRowKeepsRowInsertedInBetween(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)

	// The row appears after the toggle's lookup missed it. The seed insert
	// must hit the conflict path, keep the existing row and return it.
	require.NoError(t, db.Create(&models.NoteInteraction{
		UserID: reader.ID, NoteID: note.ID, IsFavorited: true,
	}).Error)

	row, err := seedRow(db, reader.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, row.IsFavorited)

	var count int64
	require.NoError(t, db.Model(&models.NoteInteraction{}).
		Where("user_id = ? AND note_id = ?", reader.ID, note.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestToggleOnMissingNoteFailsAndRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	reader := createUser(t, db, "reader")
	ctx := context.Background()

	missing := uuid.New()
	_, err := svc.ToggleUpvote(ctx, reader.ID, missing)
	require.ErrorIs(t, err, ErrNoteNotFound)

	// The rollback must also discard the interaction row.
	var count int64
	require.NoError(t, db.Model(&models.NoteInteraction{}).
		Where("user_id = ? AND note_id = ?", reader.ID, missing).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetInteractionZeroRowForStranger(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", false)

	row, err := svc.GetInteraction(context.Background(), reader.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, row.IsUpvoted)
	assert.False(t, row.IsDownvoted)
	assert.False(t, row.IsFavorited)
	assert.False(t, row.IsSaved)
}

func TestGetCounterMissingNote(t *testing.T) {
	db := newTestDB(t)
	svc := NewInteractionService(db, nil)

	_, err := svc.GetCounter(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNoteNotFound)
}
