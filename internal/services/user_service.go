package services

import (
	"context"
	"errors"
	"strings"

	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/scopes"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List pages over users with optional role and auth-kind filters.
// auth is "Oauth" or "Auth"; anything else means no filter.
func (s *UserService) List(ctx context.Context, q *dto.UserListQuery) ([]models.User, int64, string, error) {
	orderScope, resolvedOrder := scopes.Resolve(scopes.UserOrderConditions(), q.Order, scopes.OrderNew)

	base := s.db.WithContext(ctx).Model(&models.User{})
	if q.Role == models.RoleUser || q.Role == models.RoleAdmin {
		base = base.Where("role = ?", q.Role)
	}
	switch q.Auth {
	case "Oauth":
		base = base.Where("is_oauth = ?", true)
	case "Auth":
		base = base.Where("is_oauth = ?", false)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, "", err
	}

	var users []models.User
	err := orderScope(base.Session(&gorm.Session{})).
		Preload("Profile").
		Limit(q.Limit).Offset((q.Page - 1) * q.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, "", err
	}
	return users, total, resolvedOrder, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Search matches usernames case-insensitively on a substring.
func (s *UserService) Search(ctx context.Context, username string, page, limit int) ([]models.User, int64, error) {
	pattern := "%" + strings.ToLower(username) + "%"
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) LIKE ?", pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := base.Session(&gorm.Session{}).
		Preload("Profile").
		Order("username ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, isOauth bool, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"username": req.Username}
	// Oauth accounts keep the provider-asserted email.
	if req.Email != "" && !isOauth {
		updates["email"] = req.Email
	}

	var clash models.User
	err = s.db.WithContext(ctx).
		Where("username = ? AND id <> ?", req.Username, userID).
		First(&clash).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, imageURL string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"age":        req.Age,
		"phone":      req.Phone,
	}
	if imageURL != "" {
		updates["profile_image"] = imageURL
	}

	if err := s.db.WithContext(ctx).Model(&profile).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ToggleFollow follows the target if not followed, unfollows otherwise.
// Returns true when the toggle ended in a follow.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}
	if _, err := s.GetByID(ctx, followingID); err != nil {
		return false, err
	}

	var followed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error
		if err == nil {
			followed = false
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		followed = true
		return tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	return followed, err
}

// Followers lists the users following userID.
func (s *UserService) Followers(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.UserSummary, int64, error) {
	return s.followEdge(ctx, userID, "follows.following_id", "follows.follower_id", page, limit)
}

// Followings lists the users userID follows.
func (s *UserService) Followings(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.UserSummary, int64, error) {
	return s.followEdge(ctx, userID, "follows.follower_id", "follows.following_id", page, limit)
}

func (s *UserService) followEdge(ctx context.Context, userID uuid.UUID, whereColumn, joinColumn string, page, limit int) ([]models.UserSummary, int64, error) {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, 0, err
	}

	join := "JOIN follows ON " + joinColumn + " = users.id"

	var total int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins(join).
		Where(whereColumn+" = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var summaries []models.UserSummary
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id", "users.username", "users.email").
		Joins(join).
		Where(whereColumn+" = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsOauth || user.Password == nil {
		return ErrOauthNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error
}

func (s *UserService) ChangeRole(ctx context.Context, userID uuid.UUID, role string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// Delete removes the account and everything hanging off it. The user's own
// interaction rows decrement the counters of the notes they touched, so the
// row/counter equality survives account deletion.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flagCounters := map[string]string{
			"is_upvoted":   "upvoted_count",
			"is_downvoted": "downvoted_count",
			"is_favorited": "favorited_count",
			"is_saved":     "saved_count",
		}
		for flag, counter := range flagCounters {
			err := tx.Exec(
				"UPDATE note_interaction_counters SET "+counter+" = "+counter+" - 1 "+
					"WHERE note_id IN (SELECT note_id FROM note_interactions WHERE user_id = ? AND "+flag+" = ?)",
				userID, true,
			).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.NoteInteraction{}).Error; err != nil {
			return err
		}

		// The user's own notes go with everything attached to them.
		var noteIDs []uuid.UUID
		if err := tx.Model(&models.Note{}).Where("user_id = ?", userID).Pluck("id", &noteIDs).Error; err != nil {
			return err
		}
		if len(noteIDs) > 0 {
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NoteInteraction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NoteInteractionCounter{}).Error; err != nil {
				return err
			}
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NotePermission{}).Error; err != nil {
				return err
			}
			if err := tx.Where("note_id IN ?", noteIDs).Delete(&models.NoteAttachment{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM note_tags WHERE note_id IN ?", noteIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", noteIDs).Delete(&models.Note{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.NotePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}
