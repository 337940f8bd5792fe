package handlers

import (
	"errors"

	"forkd/domain"

	"github.com/gofiber/fiber/v2"
)

// viewerID reads the optional viewer identity set by the auth middlewares.
// An empty string means the request is anonymous.
func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrEditNotFound),
		errors.Is(err, domain.ErrExperimentNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPermissionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRecipeForbidden),
		errors.Is(err, domain.ErrUserNotAllowed),
		errors.Is(err, domain.ErrFoundingEditProtected):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEmailAlreadyTaken),
		errors.Is(err, domain.ErrUsernameAlreadyTaken),
		errors.Is(err, domain.ErrPermissionExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrCredentialsInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrExtractFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
