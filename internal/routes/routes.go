package routes

import (
	"time"

	"github.com/catatanku/backend/internal/config"
	"github.com/catatanku/backend/internal/handlers"
	"github.com/catatanku/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	noteHandler *handlers.NoteHandler,
	permissionHandler *handlers.PermissionHandler,
	tagHandler *handlers.TagHandler,
	studyHandler *handlers.StudyHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Prometheus scrape endpoint, outside the rate-limited API group.
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limiter: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/oauth", authHandler.OauthLogin)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	jwt := middleware.JWTProtected(cfg)
	optional := middleware.OptionalJWT(cfg)
	admin := middleware.AdminRequired(db, cfg)

	// Users
	users := api.Group("/users")
	users.Get("/", jwt, admin, userHandler.List)
	users.Get("/me", jwt, userHandler.Me)
	users.Get("/search", userHandler.Search)
	users.Patch("/", jwt, userHandler.Update)
	users.Patch("/profile", jwt, userHandler.UpdateProfile)
	users.Patch("/password", jwt, userHandler.ChangePassword)
	users.Get("/:userId", userHandler.GetByID)
	users.Patch("/:userId/follow", jwt, userHandler.ToggleFollow)
	users.Get("/:userId/followers", userHandler.Followers)
	users.Get("/:userId/followings", userHandler.Followings)
	users.Patch("/:userId/role", jwt, admin, userHandler.ChangeRole)
	users.Delete("/:userId", jwt, userHandler.Delete)

	// Notes. Listing and read endpoints take an optional token: anonymous
	// viewers see the public subset.
	notes := api.Group("/notes")
	notes.Get("/", optional, noteHandler.List)
	notes.Post("/", jwt, noteHandler.Create)
	notes.Get("/user/:userId", optional, noteHandler.ListByUser)
	notes.Get("/tag/:tagName", optional, noteHandler.ListByTag)
	notes.Get("/study/:studyName", optional, noteHandler.ListByStudy)
	notes.Delete("/attachments/:attachmentId", jwt, noteHandler.DeleteAttachment)
	notes.Get("/:noteId", optional, noteHandler.GetByID)
	notes.Patch("/:noteId", jwt, noteHandler.Update)
	notes.Patch("/:noteId/upvote", jwt, noteHandler.ToggleUpvote)
	notes.Patch("/:noteId/downvote", jwt, noteHandler.ToggleDownvote)
	notes.Patch("/:noteId/favorite", jwt, noteHandler.ToggleFavorite)
	notes.Patch("/:noteId/save", jwt, noteHandler.ToggleSave)
	notes.Get("/:noteId/interaction", jwt, noteHandler.GetInteraction)
	notes.Get("/:noteId/counter", noteHandler.GetCounter)
	notes.Post("/:noteId/attachments", jwt, noteHandler.AddAttachments)

	// Note permissions
	permissions := api.Group("/note-permissions", jwt)
	permissions.Get("/:noteId", permissionHandler.List)
	permissions.Post("/:noteId", permissionHandler.Add)
	permissions.Patch("/:noteId", permissionHandler.Upsert)
	permissions.Delete("/:noteId", permissionHandler.Delete)

	// Tags: reads are public, writes are admin-curated.
	tags := api.Group("/tags")
	tags.Get("/", tagHandler.List)
	tags.Get("/:tagId", tagHandler.GetByID)
	tags.Post("/", jwt, admin, tagHandler.Create)
	tags.Patch("/:tagId", jwt, admin, tagHandler.Update)
	tags.Delete("/:tagId", jwt, admin, tagHandler.Delete)

	// Studies follow the same curation model as tags.
	studies := api.Group("/studies")
	studies.Get("/", studyHandler.List)
	studies.Get("/:studyId", studyHandler.GetByID)
	studies.Post("/", jwt, admin, studyHandler.Create)
	studies.Patch("/:studyId", jwt, admin, studyHandler.Update)
	studies.Delete("/:studyId", jwt, admin, studyHandler.Delete)
}
