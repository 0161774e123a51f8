package handlers

import (
	"github.com/catatanku/backend/internal/dto"
	"github.com/catatanku/backend/internal/middleware"
	"github.com/catatanku/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		middleware.AuthAttempts.WithLabelValues("register", "failure").Inc()
		return respondError(c, err)
	}

	middleware.AuthAttempts.WithLabelValues("register", "success").Inc()
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Username == "" && req.Email == "" {
		return badRequest(c, "Username or email is required")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		middleware.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return respondError(c, err)
	}

	middleware.AuthAttempts.WithLabelValues("login", "success").Inc()
	return c.JSON(resp)
}

func (h *AuthHandler) OauthLogin(c *fiber.Ctx) error {
	var req dto.OauthLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	resp, err := h.authService.OauthLogin(&req)
	if err != nil {
		middleware.AuthAttempts.WithLabelValues("oauth", "failure").Inc()
		return respondError(c, err)
	}

	middleware.AuthAttempts.WithLabelValues("oauth", "success").Inc()
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.Logout(&req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}
