package config

import (
	"os"
	"time"

	"forkd/internal/api/handlers"
	"forkd/internal/api/routes"
	"forkd/internal/middleware"
	"forkd/internal/utils"
	"forkd/internal/utils/storage"
	"forkd/pkg/extract"
	"forkd/pkg/jwt"
	"forkd/pkg/permission"
	"forkd/pkg/recipe"
	"forkd/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	permissionRepository := permission.NewPermissionRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	permissionService := permission.NewPermissionService(permissionRepository)
	userService := user.NewUserService(userRepository, permissionService, jwtService)
	recipeService := recipe.NewRecipeService(recipeRepository, permissionService, s3)
	extractService := extract.NewExtractService()

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	permissionHandler := handlers.NewPermissionHandler(permissionService, validator)
	extractHandler := handlers.NewExtractHandler(extractService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		PermissionHandler: permissionHandler,
		ExtractHandler:    extractHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
