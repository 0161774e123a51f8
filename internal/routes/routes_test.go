package routes

import (
	"testing"

	"github.com/catatanku/backend/internal/config"
	"github.com/catatanku/backend/internal/handlers"
	"github.com/catatanku/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	cfg := &config.Config{JWTSecret: "test-secret"}

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		handlers.NewUserHandler(services.NewUserService(db), nil),
		handlers.NewNoteHandler(services.NewNoteService(db, nil), services.NewInteractionService(db, nil), nil),
		handlers.NewPermissionHandler(services.NewPermissionService(db)),
		handlers.NewTagHandler(services.NewTagService(db)),
		handlers.NewStudyHandler(services.NewStudyService(db), nil),
		handlers.NewHealthHandler(db),
	)
	return app
}

// Toggles mutate existing resources, so they ride on PATCH like the other
// partial updates.
func TestToggleAndFollowEndpointsUsePatch(t *testing.T) {
	app := newTestApp(t)

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes(true) {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"PATCH /api/notes/:noteId/upvote",
		"PATCH /api/notes/:noteId/downvote",
		"PATCH /api/notes/:noteId/favorite",
		"PATCH /api/notes/:noteId/save",
		"PATCH /api/users/:userId/follow",
	} {
		assert.True(t, registered[want], want)
	}
	for _, gone := range []string{
		"POST /api/notes/:noteId/upvote",
		"POST /api/users/:userId/follow",
	} {
		assert.False(t, registered[gone], gone)
	}
}
