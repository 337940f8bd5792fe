package handlers

import (
	"forkd/domain"
	"forkd/internal/api/presenters"
	"forkd/pkg/permission"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PermissionHandler interface {
		ListGrants(c *fiber.Ctx) error
		CreateGrant(c *fiber.Ctx) error
		UpdateGrant(c *fiber.Ctx) error
		RevokeGrant(c *fiber.Ctx) error
	}

	permissionHandler struct {
		permissionService permission.PermissionService
		validator         *validator.Validate
	}
)

func NewPermissionHandler(permissionService permission.PermissionService, validator *validator.Validate) PermissionHandler {
	return &permissionHandler{
		permissionService: permissionService,
		validator:         validator,
	}
}

func (h *permissionHandler) ListGrants(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")

	res, err := h.permissionService.ListGrants(c.Context(), userID, recipeID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetPermissions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPermissions)
}

func (h *permissionHandler) CreateGrant(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	req := new(domain.GrantPermissionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGrantPermission, err)
	}

	if err := h.permissionService.CreateGrant(c.Context(), userID, recipeID, *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGrantPermission, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessGrantPermission)
}

func (h *permissionHandler) UpdateGrant(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	granteeID := c.Params("userId")
	req := new(domain.UpdatePermissionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.permissionService.UpdateGrant(c.Context(), userID, recipeID, granteeID, *req); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUpdateGrant, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateGrant)
}

func (h *permissionHandler) RevokeGrant(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	recipeID := c.Params("id")
	granteeID := c.Params("userId")

	if err := h.permissionService.RevokeGrant(c.Context(), userID, recipeID, granteeID); err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedRevokeGrant, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRevokeGrant)
}
