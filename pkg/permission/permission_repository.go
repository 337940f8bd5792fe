package permission

import (
	"context"
	"errors"

	"forkd/entities"

	"gorm.io/gorm"
)

type (
	PermissionRepository interface {
		// Grants
		GetPermission(ctx context.Context, userID, recipeID string) (*entities.Permission, error)
		GetPermissionsByRecipe(ctx context.Context, recipeID string) ([]*entities.Permission, error)
		GetPermissionsByUser(ctx context.Context, userID string) ([]*entities.Permission, error)
		CreatePermission(ctx context.Context, permission *entities.Permission) error
		UpdatePermission(ctx context.Context, permission *entities.Permission) error
		DeletePermission(ctx context.Context, userID, recipeID string) error

		// Cross-table lookups the resolver needs
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipesByOwner(ctx context.Context, ownerID string) ([]*entities.Recipe, error)
		GetRecipesSharedWith(ctx context.Context, userID string) ([]*entities.Recipe, error)
		GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
	}

	permissionRepository struct {
		db *gorm.DB
	}
)

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// GetPermission returns (nil, nil) when no grant row exists for the pair.
func (r *permissionRepository) GetPermission(ctx context.Context, userID, recipeID string) (*entities.Permission, error) {
	var permission entities.Permission
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) GetPermissionsByRecipe(ctx context.Context, recipeID string) ([]*entities.Permission, error) {
	var permissions []*entities.Permission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at asc").
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) GetPermissionsByUser(ctx context.Context, userID string) ([]*entities.Permission, error) {
	var permissions []*entities.Permission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// CreatePermission relies on the composite unique index on
// (user_id, recipe_id); a duplicate surfaces as gorm.ErrDuplicatedKey.
func (r *permissionRepository) CreatePermission(ctx context.Context, permission *entities.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *permissionRepository) UpdatePermission(ctx context.Context, permission *entities.Permission) error {
	return r.db.WithContext(ctx).
		Model(&entities.Permission{}).
		Where("id = ?", permission.ID).
		Updates(map[string]interface{}{
			"can_edit":       permission.CanEdit,
			"can_experiment": permission.CanExperiment,
		}).Error
}

func (r *permissionRepository) DeletePermission(ctx context.Context, userID, recipeID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Permission{}).Error
}

func (r *permissionRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *permissionRepository) GetRecipesByOwner(ctx context.Context, ownerID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("last_modified desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *permissionRepository) GetRecipesSharedWith(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Joins("JOIN permissions ON permissions.recipe_id = recipes.id").
		Where("permissions.user_id = ?", userID).
		Order("recipes.last_modified desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *permissionRepository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *permissionRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
