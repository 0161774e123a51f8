package services

import (
	"context"
	"testing"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema.
// One connection only, so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.Study{},
		&models.Tag{},
		&models.Note{},
		&models.NoteAttachment{},
		&models.NoteInteraction{},
		&models.NoteInteractionCounter{},
		&models.NotePermission{},
		&models.Follow{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	password := "$2a$10$abcdefghijklmnopqrstuv"
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: &password,
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createNote goes through the real service so the counter row and owner grant
// exist, same as in production.
func createNote(t *testing.T, db *gorm.DB, owner *models.User, title string, private bool, sharedWith ...uuid.UUID) *models.Note {
	t.Helper()

	svc := NewNoteService(db, nil)
	note, err := svc.Create(context.Background(), owner.ID, &dto.CreateNoteRequest{
		Title:      title,
		Content:    "content of " + title,
		IsPrivate:  private,
		SharedWith: sharedWith,
	}, "", nil)
	require.NoError(t, err)
	return note
}

func loadCounter(t *testing.T, db *gorm.DB, noteID uuid.UUID) *models.NoteInteractionCounter {
	t.Helper()

	var counter models.NoteInteractionCounter
	require.NoError(t, db.Where("note_id = ?", noteID).First(&counter).Error)
	return &counter
}
