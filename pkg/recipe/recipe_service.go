package recipe

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"forkd/domain"
	"forkd/entities"
	"forkd/internal/utils/storage"
	"forkd/pkg/permission"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.CreateRecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, actorID string) error

		GetTimeline(ctx context.Context, viewerID string, recipeID string) (domain.TimelineResponse, error)
		GetPreviousEdit(ctx context.Context, viewerID string, editID string) (*domain.EditResponse, error)

		CreateEdit(ctx context.Context, recipeID string, req domain.CreateEditRequest, actorID string) (domain.CreatedResponse, error)
		DeleteEdit(ctx context.Context, editID string, actorID string) error

		CreateExperiment(ctx context.Context, recipeID string, req domain.CreateExperimentRequest, actorID string) (domain.CreatedResponse, error)
		DeleteExperiment(ctx context.Context, experimentID string, actorID string) error

		UploadEditImage(ctx context.Context, recipeID string, actorID string, file *multipart.FileHeader) (domain.UploadImageResponse, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		permissionService permission.PermissionService
		s3                storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, permissionService permission.PermissionService, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		permissionService: permissionService,
		s3:                s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.CreateRecipeResponse, error) {
	ownerUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateRecipeResponse{}, domain.ErrParseUUID
	}

	now := time.Now()
	recipe := &entities.Recipe{
		UserID:              ownerUUID,
		SourceURL:           req.SourceURL,
		IsPublic:            true,
		IsExperimentsPublic: req.IsExperimentsPublic,
		LastModified:        now,
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}
	if req.ForkedFrom != "" {
		forkedFrom, err := uuid.Parse(req.ForkedFrom)
		if err != nil {
			return domain.CreateRecipeResponse{}, domain.ErrParseUUID
		}
		recipe.ForkedFrom = &forkedFrom
	}

	edit := &entities.Edit{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
		CommitDate:   now,
		CommitBy:     &ownerUUID,
	}

	if err := s.recipeRepository.CreateRecipeWithEdit(ctx, recipe, edit); err != nil {
		return domain.CreateRecipeResponse{}, err
	}

	return domain.CreateRecipeResponse{
		ID:     recipe.ID.String(),
		EditID: edit.ID.String(),
	}, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, actorID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}
	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetTimeline(ctx context.Context, viewerID string, recipeID string) (domain.TimelineResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.TimelineResponse{}, err
	}
	if recipe == nil {
		return domain.TimelineResponse{}, domain.ErrRecipeNotFound
	}

	caps, err := s.permissionService.ResolveCapabilities(ctx, viewerID, recipe)
	if err != nil {
		return domain.TimelineResponse{}, err
	}
	if !caps.CanView {
		return domain.TimelineResponse{}, domain.ErrRecipeForbidden
	}

	edits, err := s.recipeRepository.GetEditsByRecipe(ctx, recipeID)
	if err != nil {
		return domain.TimelineResponse{}, err
	}

	// Experiments the viewer may not see are never fetched, so their
	// fields cannot leak into the merge.
	var experiments []*entities.Experiment
	if caps.CanViewExperiments {
		experiments, err = s.recipeRepository.GetExperimentsByRecipe(ctx, recipeID)
		if err != nil {
			return domain.TimelineResponse{}, err
		}
	}

	return domain.TimelineResponse{
		RecipeID:      recipe.ID.String(),
		Items:         mergeTimeline(edits, experiments),
		CanEdit:       caps.CanEdit,
		CanExperiment: caps.CanExperiment,
	}, nil
}

// GetPreviousEdit returns the next-older snapshot, or nil when the given
// edit is the founding edit.
func (s *recipeService) GetPreviousEdit(ctx context.Context, viewerID string, editID string) (*domain.EditResponse, error) {
	edit, err := s.recipeRepository.GetEditByID(ctx, editID)
	if err != nil {
		return nil, err
	}
	if edit == nil {
		return nil, domain.ErrEditNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, edit.RecipeID.String())
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrRecipeNotFound
	}

	caps, err := s.permissionService.ResolveCapabilities(ctx, viewerID, recipe)
	if err != nil {
		return nil, err
	}
	if !caps.CanView {
		return nil, domain.ErrRecipeForbidden
	}

	edits, err := s.recipeRepository.GetEditsByRecipe(ctx, edit.RecipeID.String())
	if err != nil {
		return nil, err
	}

	for i, candidate := range edits {
		if candidate.ID == edit.ID {
			if i == len(edits)-1 {
				return nil, nil
			}
			return toEditResponse(edits[i+1]), nil
		}
	}
	return nil, domain.ErrEditNotFound
}

func (s *recipeService) CreateEdit(ctx context.Context, recipeID string, req domain.CreateEditRequest, actorID string) (domain.CreatedResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.CreatedResponse{}, err
	}
	if recipe == nil {
		return domain.CreatedResponse{}, domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityEdit); err != nil {
		return domain.CreatedResponse{}, err
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return domain.CreatedResponse{}, domain.ErrParseUUID
	}

	now := time.Now()
	edit := &entities.Edit{
		RecipeID:     recipe.ID,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		ImageURL:     req.ImageURL,
		CommitDate:   now,
		CommitBy:     &actorUUID,
	}
	if err := s.recipeRepository.CreateEdit(ctx, edit); err != nil {
		return domain.CreatedResponse{}, err
	}
	if err := s.recipeRepository.UpdateLastModified(ctx, recipeID, now); err != nil {
		return domain.CreatedResponse{}, err
	}

	return domain.CreatedResponse{ID: edit.ID.String()}, nil
}

func (s *recipeService) DeleteEdit(ctx context.Context, editID string, actorID string) error {
	edit, err := s.recipeRepository.GetEditByID(ctx, editID)
	if err != nil {
		return err
	}
	if edit == nil {
		return domain.ErrEditNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, edit.RecipeID.String())
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}

	// The founding edit represents the recipe's creation; no capability
	// authorizes removing it.
	founding, err := s.recipeRepository.GetFoundingEdit(ctx, edit.RecipeID.String())
	if err != nil {
		return err
	}
	if founding != nil && founding.ID == edit.ID {
		return domain.ErrFoundingEditProtected
	}

	return s.recipeRepository.DeleteEdit(ctx, editID)
}

func (s *recipeService) CreateExperiment(ctx context.Context, recipeID string, req domain.CreateExperimentRequest, actorID string) (domain.CreatedResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.CreatedResponse{}, err
	}
	if recipe == nil {
		return domain.CreatedResponse{}, domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityExperiment); err != nil {
		return domain.CreatedResponse{}, err
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return domain.CreatedResponse{}, domain.ErrParseUUID
	}

	now := time.Now()
	createDate := now
	if req.CreateDate != nil {
		createDate = *req.CreateDate
	}
	experiment := &entities.Experiment{
		RecipeID:   recipe.ID,
		CommitMsg:  req.CommitMsg,
		Notes:      req.Notes,
		CommitDate: now,
		CreateDate: &createDate,
		CommitBy:   &actorUUID,
	}
	if err := s.recipeRepository.CreateExperiment(ctx, experiment); err != nil {
		return domain.CreatedResponse{}, err
	}
	if err := s.recipeRepository.UpdateLastModified(ctx, recipeID, now); err != nil {
		return domain.CreatedResponse{}, err
	}

	return domain.CreatedResponse{ID: experiment.ID.String()}, nil
}

func (s *recipeService) DeleteExperiment(ctx context.Context, experimentID string, actorID string) error {
	experiment, err := s.recipeRepository.GetExperimentByID(ctx, experimentID)
	if err != nil {
		return err
	}
	if experiment == nil {
		return domain.ErrExperimentNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, experiment.RecipeID.String())
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}

	return s.recipeRepository.DeleteExperiment(ctx, experimentID)
}

func (s *recipeService) UploadEditImage(ctx context.Context, recipeID string, actorID string, file *multipart.FileHeader) (domain.UploadImageResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.UploadImageResponse{}, err
	}
	if recipe == nil {
		return domain.UploadImageResponse{}, domain.ErrRecipeNotFound
	}
	if err := s.permissionService.RequireCapability(ctx, actorID, recipe, domain.CapabilityEdit); err != nil {
		return domain.UploadImageResponse{}, err
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New().String(), filepath.Ext(file.Filename))
	url, err := s.s3.UploadFile(ctx, file, key)
	if err != nil {
		return domain.UploadImageResponse{}, err
	}
	return domain.UploadImageResponse{ImageURL: url}, nil
}

func toEditResponse(edit *entities.Edit) *domain.EditResponse {
	res := &domain.EditResponse{
		ID:           edit.ID.String(),
		RecipeID:     edit.RecipeID.String(),
		Title:        edit.Title,
		Description:  edit.Description,
		Ingredients:  edit.Ingredients,
		Instructions: edit.Instructions,
		ImageURL:     edit.ImageURL,
		CommitDate:   edit.CommitDate,
	}
	if edit.CommitBy != nil {
		res.CommitBy = edit.CommitBy.String()
	}
	return res
}
