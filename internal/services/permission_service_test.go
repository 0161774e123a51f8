package services

import (
	"context"
	"testing"

	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerGetsReadWriteOnCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "owner")
	note := createNote(t, db, owner, "note", true)

	var grant models.NotePermission
	require.NoError(t, db.Where("user_id = ? AND note_id = ?", owner.ID, note.ID).First(&grant).Error)
	assert.Equal(t, models.PermissionReadWrite, grant.Permission)
}

func TestAddGrantStrictConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", true)
	ctx := context.Background()

	grant, err := svc.Add(ctx, owner.ID, note.ID, reader.ID, models.PermissionRead)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionRead, grant.Permission)

	// Re-adding the same user is a conflict, even with a different level.
	_, err = svc.Add(ctx, owner.ID, note.ID, reader.ID, models.PermissionReadWrite)
	require.ErrorIs(t, err, ErrAlreadyGrantee)
}

func TestAddGrantOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	intruder := createUser(t, db, "intruder")
	other := createUser(t, db, "other")
	note := createNote(t, db, owner, "note", true)

	_, err := svc.Add(context.Background(), intruder.ID, note.ID, other.ID, models.PermissionRead)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestUpsertOverwritesExistingGrant(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", true)
	ctx := context.Background()

	_, err := svc.Add(ctx, owner.ID, note.ID, reader.ID, models.PermissionRead)
	require.NoError(t, err)

	grant, err := svc.Upsert(ctx, owner.ID, note.ID, reader.ID, models.PermissionReadWrite)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionReadWrite, grant.Permission)

	var count int64
	require.NoError(t, db.Model(&models.NotePermission{}).
		Where("user_id = ? AND note_id = ?", reader.ID, note.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertRequiresReadWrite(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	other := createUser(t, db, "other")
	note := createNote(t, db, owner, "note", true, reader.ID)
	ctx := context.Background()

	// A READ grantee cannot manage grants.
	_, err := svc.Upsert(ctx, reader.ID, note.ID, other.ID, models.PermissionRead)
	require.ErrorIs(t, err, ErrForbidden)

	// Promote to READ_WRITE and the same call succeeds.
	_, err = svc.Upsert(ctx, owner.ID, note.ID, reader.ID, models.PermissionReadWrite)
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, reader.ID, note.ID, other.ID, models.PermissionRead)
	require.NoError(t, err)
}

func TestDeleteGrant(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")
	note := createNote(t, db, owner, "note", true, reader.ID)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, owner.ID, note.ID, reader.ID))
	require.ErrorIs(t, svc.Delete(ctx, owner.ID, note.ID, reader.ID), ErrGrantNotFound)

	// The owner cannot revoke their own row.
	require.ErrorIs(t, svc.Delete(ctx, owner.ID, note.ID, owner.ID), ErrForbidden)
}

func TestGrantOnMissingNote(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	reader := createUser(t, db, "reader")

	_, err := svc.Add(context.Background(), owner.ID, uuid.New(), reader.ID, models.PermissionRead)
	require.ErrorIs(t, err, ErrNoteNotFound)
}

func TestGrantOnMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	owner := createUser(t, db, "owner")
	note := createNote(t, db, owner, "note", true)

	_, err := svc.Add(context.Background(), owner.ID, note.ID, uuid.New(), models.PermissionRead)
	require.ErrorIs(t, err, ErrUserNotFound)
}
