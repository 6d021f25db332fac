package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/josdesi/gpac-backend/app/models"
)

// UserContext represents the complete staff user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetUsername returns the current user's name, or empty string if not logged in
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}

// GetRole returns the current user's role, or empty string if not logged in
func GetRole(c *fiber.Ctx) string {
	return GetUserContext(c).Role
}

// IsAdmin checks if the current user has the admin role
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).Role == models.ROLE_ADMIN
}

// HasRole checks whether the current user holds one of the given roles.
// Admins pass every role check.
func HasRole(c *fiber.Ctx, roles ...string) bool {
	ctx := GetUserContext(c)
	if !ctx.IsLoggedIn {
		return false
	}
	if ctx.Role == models.ROLE_ADMIN {
		return true
	}
	for _, role := range roles {
		if ctx.Role == role {
			return true
		}
	}
	return false
}
