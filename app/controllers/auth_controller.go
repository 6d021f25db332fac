package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/app/repository"
	"github.com/josdesi/gpac-backend/internal/pkg/apperr"
	"github.com/josdesi/gpac-backend/internal/pkg/session"
	"github.com/josdesi/gpac-backend/internal/pkg/usercontext"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a staff member and opens a session.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, apperr.NewValidationError("email", "email and password are required"))
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return respondError(c, err)
	}

	if !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}
	if !user.IsActive() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Account disabled"})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return respondError(c, err)
	}
	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.FullName())
	sess.Set(USER_ROLE, user.Role)
	if err := sess.Save(); err != nil {
		return respondError(c, err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleMe returns the logged-in staff member.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "login required"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleGenerateAPIKey rotates the caller's API key and returns the plaintext
// key exactly once.
func HandleGenerateAPIKey(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "login required"})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}

	key, err := user.GenerateAPIKey()
	if err != nil {
		return respondError(c, err)
	}
	if err := repo.Update(user); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"api_key": key})
}

// HandleRegisterUser creates a staff account. Restricted to admins via
// routing middleware.
func HandleRegisterUser(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.NewValidationError("body", "invalid JSON payload"))
	}
	if req.Role == "" {
		req.Role = models.ROLE_RECRUITER
	}

	user, err := models.CreateUser(req.FirstName, req.LastName, req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, apperr.FromValidator(err))
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(user); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}
