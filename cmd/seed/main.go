package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/catatanku/backend/internal/config"
	"github.com/catatanku/backend/internal/database"
	"github.com/catatanku/backend/internal/logging"
	"github.com/catatanku/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a development database with an admin, a few demo users and the
// baseline tags and studies. Safe to run repeatedly; existing rows are kept.
func main() {
	logging.Setup()

	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := seedUsers(db); err != nil {
		slog.Error("user seed failed", "error", err)
		os.Exit(1)
	}
	if err := seedTags(db); err != nil {
		slog.Error("tag seed failed", "error", err)
		os.Exit(1)
	}
	if err := seedStudies(db); err != nil {
		slog.Error("study seed failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seed complete")
}

func seedUsers(db *gorm.DB) error {
	users := []struct {
		username string
		email    string
		role     string
	}{
		{"admin", "admin@catatanku.local", models.RoleAdmin},
		{"alice", "alice@catatanku.local", models.RoleUser},
		{"bob", "bob@catatanku.local", models.RoleUser},
		{"carol", "carol@catatanku.local", models.RoleUser},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	password := string(hash)

	for _, u := range users {
		var existing models.User
		err := db.Where("username = ?", u.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := models.User{
			Username: u.username,
			Email:    u.email,
			Password: &password,
			Role:     u.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		if err := db.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
			return err
		}
		slog.Info("seeded user", "username", u.username, "role", u.role)
	}
	return nil
}

func seedTags(db *gorm.DB) error {
	names := []string{"mathematics", "physics", "biology", "history", "programming"}
	for _, name := range names {
		var existing models.Tag
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Tag{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedStudies(db *gorm.DB) error {
	studies := []models.Study{
		{Name: "computer-science", Description: "Algorithms, systems and everything in between"},
		{Name: "natural-sciences", Description: "Physics, chemistry and biology"},
		{Name: "humanities", Description: "History, philosophy and languages"},
	}
	for _, s := range studies {
		var existing models.Study
		err := db.Where("name = ?", s.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}
	return nil
}
