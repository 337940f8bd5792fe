package handlers

import (
	"errors"

	"forkd/domain"
	"forkd/internal/api/presenters"
	"forkd/pkg/extract"

	"github.com/gofiber/fiber/v2"
)

type (
	ExtractHandler interface {
		ExtractRecipe(c *fiber.Ctx) error
	}

	extractHandler struct {
		extractService extract.ExtractService
	}
)

func NewExtractHandler(extractService extract.ExtractService) ExtractHandler {
	return &extractHandler{extractService: extractService}
}

func (h *extractHandler) ExtractRecipe(c *fiber.Ctx) error {
	recipeURL := c.Query("url")
	if recipeURL == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedExtractRecipe, errors.New("url query parameter is required"))
	}

	res, err := h.extractService.ExtractRecipe(c.Context(), recipeURL)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedExtractRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessExtractRecipe)
}
