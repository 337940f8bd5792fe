package recipe

import (
	"context"
	"errors"
	"time"

	"forkd/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		// Recipes
		CreateRecipeWithEdit(ctx context.Context, recipe *entities.Recipe, edit *entities.Edit) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		UpdateLastModified(ctx context.Context, recipeID string, modifiedAt time.Time) error
		DeleteRecipe(ctx context.Context, id string) error

		// Edits
		CreateEdit(ctx context.Context, edit *entities.Edit) error
		GetEditByID(ctx context.Context, id string) (*entities.Edit, error)
		GetEditsByRecipe(ctx context.Context, recipeID string) ([]*entities.Edit, error)
		GetFoundingEdit(ctx context.Context, recipeID string) (*entities.Edit, error)
		DeleteEdit(ctx context.Context, id string) error

		// Experiments
		CreateExperiment(ctx context.Context, experiment *entities.Experiment) error
		GetExperimentByID(ctx context.Context, id string) (*entities.Experiment, error)
		GetExperimentsByRecipe(ctx context.Context, recipeID string) ([]*entities.Experiment, error)
		DeleteExperiment(ctx context.Context, id string) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipeWithEdit writes a recipe and its founding edit atomically; a
// recipe must never exist without one.
func (r *recipeRepository) CreateRecipeWithEdit(ctx context.Context, recipe *entities.Recipe, edit *entities.Edit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		edit.RecipeID = recipe.ID
		return tx.Create(edit).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) UpdateLastModified(ctx context.Context, recipeID string, modifiedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", recipeID).
		Update("last_modified", modifiedAt).Error
}

// DeleteRecipe cascades to the recipe's edits, experiments and grants in a
// single transaction.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Edit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Experiment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Permission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) CreateEdit(ctx context.Context, edit *entities.Edit) error {
	return r.db.WithContext(ctx).Create(edit).Error
}

func (r *recipeRepository) GetEditByID(ctx context.Context, id string) (*entities.Edit, error) {
	var edit entities.Edit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&edit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &edit, nil
}

// GetEditsByRecipe returns the edit history newest first. The id column is
// the tie-break so two edits sharing a commit date order the same way on
// every call.
func (r *recipeRepository) GetEditsByRecipe(ctx context.Context, recipeID string) ([]*entities.Edit, error) {
	var edits []*entities.Edit
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("commit_date desc, id desc").
		Find(&edits).Error; err != nil {
		return nil, err
	}
	return edits, nil
}

func (r *recipeRepository) GetFoundingEdit(ctx context.Context, recipeID string) (*entities.Edit, error) {
	var edit entities.Edit
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("commit_date asc, id asc").
		First(&edit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &edit, nil
}

func (r *recipeRepository) DeleteEdit(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Edit{}).Error
}

func (r *recipeRepository) CreateExperiment(ctx context.Context, experiment *entities.Experiment) error {
	return r.db.WithContext(ctx).Create(experiment).Error
}

func (r *recipeRepository) GetExperimentByID(ctx context.Context, id string) (*entities.Experiment, error) {
	var experiment entities.Experiment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&experiment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &experiment, nil
}

func (r *recipeRepository) GetExperimentsByRecipe(ctx context.Context, recipeID string) ([]*entities.Experiment, error) {
	var experiments []*entities.Experiment
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("commit_date desc, id desc").
		Find(&experiments).Error; err != nil {
		return nil, err
	}
	return experiments, nil
}

func (r *recipeRepository) DeleteExperiment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Experiment{}).Error
}
