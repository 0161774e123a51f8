package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated principal, decoded verbatim from access-token
// claims. The core trusts it and performs no credential checks of its own.
type Identity struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     string
	IsOauth  bool
}

var ErrNoIdentity = errors.New("no authenticated identity in context")

// Current extracts the identity from the JWT placed in fiber locals by the
// auth middleware. Fails when the request is unauthenticated.
func Current(c *fiber.Ctx) (*Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, err
	}

	ident := &Identity{ID: id}
	ident.Username, _ = claims["username"].(string)
	ident.Email, _ = claims["email"].(string)
	ident.Role, _ = claims["role"].(string)
	ident.IsOauth, _ = claims["is_oauth"].(bool)
	return ident, nil
}

// Viewer returns the identity if the request carried a valid token, nil
// otherwise. Listing endpoints pass the result straight into the visibility
// policy, which treats nil as the anonymous viewer.
func Viewer(c *fiber.Ctx) *Identity {
	ident, err := Current(c)
	if err != nil {
		return nil
	}
	return ident
}

// ViewerID is a convenience for policy functions that only need the UUID.
func ViewerID(c *fiber.Ctx) *uuid.UUID {
	if ident := Viewer(c); ident != nil {
		return &ident.ID
	}
	return nil
}
