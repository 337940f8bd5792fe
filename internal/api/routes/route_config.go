package routes

import (
	"forkd/internal/api/handlers"
	"forkd/internal/middleware"
	"forkd/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	PermissionHandler handlers.PermissionHandler
	ExtractHandler    handlers.ExtractHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipes()
	c.Edits()
	c.Experiments()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/:username", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.GetProfile)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")

	recipes.Get("/:id", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetTimeline)

	auth := c.Middleware.AuthMiddleware(c.JWTService)
	recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/edits", auth, c.RecipeHandler.CreateEdit)
	recipes.Post("/:id/experiments", auth, c.RecipeHandler.CreateExperiment)
	recipes.Post("/:id/image", auth, c.RecipeHandler.UploadEditImage)

	// sharing management, owner only
	recipes.Get("/:id/permissions", auth, c.PermissionHandler.ListGrants)
	recipes.Post("/:id/permissions", auth, c.PermissionHandler.CreateGrant)
	recipes.Patch("/:id/permissions/:userId", auth, c.PermissionHandler.UpdateGrant)
	recipes.Delete("/:id/permissions/:userId", auth, c.PermissionHandler.RevokeGrant)

	c.App.Get("/api/v1/extract", auth, c.ExtractHandler.ExtractRecipe)
}

func (c *Config) Edits() {
	edits := c.App.Group("/api/v1/edits")
	edits.Get("/:id/previous", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.RecipeHandler.GetPreviousEdit)
	edits.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteEdit)
}

func (c *Config) Experiments() {
	experiments := c.App.Group("/api/v1/experiments")
	experiments.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteExperiment)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
