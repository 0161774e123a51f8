package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/catatanku/backend/internal/identity"
	"github.com/catatanku/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"note not found", services.ErrNoteNotFound, fiber.StatusNotFound},
		{"forbidden", services.ErrForbidden, fiber.StatusForbidden},
		{"username taken", services.ErrUsernameTaken, fiber.StatusConflict},
		{"bad credentials", services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"unauthenticated", identity.ErrNoIdentity, fiber.StatusUnauthorized},
		{"oauth has no password", services.ErrOauthNoPassword, fiber.StatusBadRequest},
		{"unknown error", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

// Unknown errors must stay opaque to the client.
func TestRespondErrorHidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("dial tcp 10.0.0.5:5432: timeout"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.5")
	assert.Contains(t, string(body), "Internal server error")
}
