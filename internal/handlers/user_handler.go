package handlers

import (
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/identity"
	"github.com/catatanku/backend/internal/models"
	"github.com/catatanku/backend/internal/services"
	"github.com/catatanku/backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
	storage     *storage.Client
}

func NewUserHandler(userService *services.UserService, st *storage.Client) *UserHandler {
	return &UserHandler{userService: userService, storage: st}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	var q dto.UserListQuery
	_ = c.QueryParser(&q)
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)

	users, total, order, err := h.userService.List(c.Context(), &q)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.NewPaginatedResponse(users, q.Page, q.Limit, total, map[string]interface{}{
		"order":          order,
		"orderAvailable": []string{"new", "old"},
	}))
}

// Me returns the authenticated user's own record with profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.userService.GetByID(c.Context(), who.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.userService.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return badRequest(c, "Username query is required")
	}
	page, limit := normalizePage(c.QueryInt("page", 1), c.QueryInt("limit", 10))

	users, total, err := h.userService.Search(c.Context(), username, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginatedResponse(users, page, limit, total, nil))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user, err := h.userService.Update(c.Context(), who.ID, who.IsOauth, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Update user successful", Data: user})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	imageURL, err := uploadFormFile(c, h.storage, "profileImage", "profiles")
	if err != nil {
		return badRequest(c, "Failed to upload profile image")
	}

	profile, err := h.userService.UpdateProfile(c.Context(), who.ID, &req, imageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Update profile successful", Data: profile})
}

// ToggleFollow follows or unfollows the target user.
func (h *UserHandler) ToggleFollow(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	targetID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	followed, err := h.userService.ToggleFollow(c.Context(), who.ID, targetID)
	if err != nil {
		return respondError(c, err)
	}

	message := "Unfollow user successful"
	if followed {
		message = "Follow user successful"
	}
	return c.JSON(dto.MessageResponse{Message: message})
}

func (h *UserHandler) Followers(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, limit := normalizePage(c.QueryInt("page", 1), c.QueryInt("limit", 10))

	users, total, err := h.userService.Followers(c.Context(), userID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginatedResponse(users, page, limit, total, nil))
}

func (h *UserHandler) Followings(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, limit := normalizePage(c.QueryInt("page", 1), c.QueryInt("limit", 10))

	users, total, err := h.userService.Followings(c.Context(), userID, page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPaginatedResponse(users, page, limit, total, nil))
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if err := h.userService.ChangePassword(c.Context(), who.ID, &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Change password successful"})
}

// ChangeRole promotes or demotes a user. Admin only, enforced by the route.
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user, err := h.userService.ChangeRole(c.Context(), userID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Change role successful", Data: user})
}

// Delete removes the caller's own account, or any account when the caller is
// an admin.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	who, err := identity.Current(c)
	if err != nil {
		return respondError(c, err)
	}
	targetID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if targetID != who.ID && who.Role != models.RoleAdmin {
		return respondError(c, services.ErrForbidden)
	}

	if err := h.userService.Delete(c.Context(), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Delete user successful"})
}
