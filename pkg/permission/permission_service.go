package permission

import (
	"context"
	"errors"
	"log"

	"forkd/domain"
	"forkd/entities"
	"forkd/internal/utils/mailing"

	"gorm.io/gorm"
)

type (
	PermissionService interface {
		// Resolver
		ResolveCapabilities(ctx context.Context, viewerID string, recipe *entities.Recipe) (domain.Capabilities, error)
		GetViewableRecipes(ctx context.Context, ownerID, viewerID string) ([]domain.RecipeSummary, error)
		GetSharedWithMe(ctx context.Context, viewerID string) ([]domain.RecipeSummary, error)

		// Access control gate
		RequireCapability(ctx context.Context, actorID string, recipe *entities.Recipe, capability domain.Capability) error

		// Sharing management (owner only)
		ListGrants(ctx context.Context, actorID, recipeID string) (domain.PermissionListResponse, error)
		CreateGrant(ctx context.Context, actorID, recipeID string, req domain.GrantPermissionRequest) error
		UpdateGrant(ctx context.Context, actorID, recipeID, granteeID string, req domain.UpdatePermissionRequest) error
		RevokeGrant(ctx context.Context, actorID, recipeID, granteeID string) error
	}

	permissionService struct {
		permissionRepository PermissionRepository
	}
)

func NewPermissionService(permissionRepository PermissionRepository) PermissionService {
	return &permissionService{permissionRepository: permissionRepository}
}

// capabilitiesFor applies the precedence rules: ownership first, then the
// explicit grant row, then the recipe's public flags. An empty viewerID is
// an anonymous viewer; grant is nil when no row exists for the pair.
func capabilitiesFor(viewerID string, recipe *entities.Recipe, grant *entities.Permission) domain.Capabilities {
	if viewerID != "" && viewerID == recipe.UserID.String() {
		return domain.Capabilities{
			CanView:            true,
			CanEdit:            true,
			CanExperiment:      true,
			CanViewExperiments: true,
		}
	}

	caps := domain.Capabilities{}
	if grant != nil {
		caps.CanEdit = grant.CanEdit
		caps.CanExperiment = grant.CanExperiment
	}
	caps.CanView = recipe.IsPublic || grant != nil

	// Edit access implies full trust, so it also unlocks experiments.
	caps.CanViewExperiments = caps.CanView &&
		(recipe.IsExperimentsPublic || caps.CanExperiment || caps.CanEdit)
	return caps
}

func (s *permissionService) resolveGrant(ctx context.Context, viewerID string, recipe *entities.Recipe) (*entities.Permission, error) {
	if viewerID == "" || viewerID == recipe.UserID.String() {
		return nil, nil
	}
	return s.permissionRepository.GetPermission(ctx, viewerID, recipe.ID.String())
}

func (s *permissionService) ResolveCapabilities(ctx context.Context, viewerID string, recipe *entities.Recipe) (domain.Capabilities, error) {
	grant, err := s.resolveGrant(ctx, viewerID, recipe)
	if err != nil {
		return domain.Capabilities{}, err
	}
	return capabilitiesFor(viewerID, recipe, grant), nil
}

func (s *permissionService) RequireCapability(ctx context.Context, actorID string, recipe *entities.Recipe, capability domain.Capability) error {
	if actorID != "" && actorID == recipe.UserID.String() {
		return nil
	}
	if capability == domain.CapabilityOwner || actorID == "" {
		return domain.ErrUserNotAllowed
	}

	grant, err := s.permissionRepository.GetPermission(ctx, actorID, recipe.ID.String())
	if err != nil {
		return err
	}
	if grant == nil {
		return domain.ErrUserNotAllowed
	}

	switch capability {
	case domain.CapabilityEdit:
		if grant.CanEdit {
			return nil
		}
	case domain.CapabilityExperiment:
		if grant.CanExperiment {
			return nil
		}
	}
	return domain.ErrUserNotAllowed
}

func (s *permissionService) GetViewableRecipes(ctx context.Context, ownerID, viewerID string) ([]domain.RecipeSummary, error) {
	recipes, err := s.permissionRepository.GetRecipesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if viewerID == ownerID {
		return toRecipeSummaries(recipes), nil
	}

	grants := map[string]*entities.Permission{}
	if viewerID != "" {
		rows, err := s.permissionRepository.GetPermissionsByUser(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			grants[row.RecipeID.String()] = row
		}
	}

	viewable := make([]*entities.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if capabilitiesFor(viewerID, recipe, grants[recipe.ID.String()]).CanView {
			viewable = append(viewable, recipe)
		}
	}
	return toRecipeSummaries(viewable), nil
}

// GetSharedWithMe surfaces every recipe with an explicit grant naming the
// viewer, public flags notwithstanding.
func (s *permissionService) GetSharedWithMe(ctx context.Context, viewerID string) ([]domain.RecipeSummary, error) {
	recipes, err := s.permissionRepository.GetRecipesSharedWith(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return toRecipeSummaries(recipes), nil
}

func (s *permissionService) ListGrants(ctx context.Context, actorID, recipeID string) (domain.PermissionListResponse, error) {
	recipe, err := s.permissionRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.PermissionListResponse{}, err
	}
	if recipe == nil {
		return domain.PermissionListResponse{}, domain.ErrRecipeNotFound
	}
	if err := s.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return domain.PermissionListResponse{}, err
	}

	rows, err := s.permissionRepository.GetPermissionsByRecipe(ctx, recipeID)
	if err != nil {
		return domain.PermissionListResponse{}, err
	}

	sharedWith := make([]domain.SharedUser, 0, len(rows))
	for _, row := range rows {
		shared := domain.SharedUser{
			UserID:        row.UserID.String(),
			CanEdit:       row.CanEdit,
			CanExperiment: row.CanExperiment,
		}
		if row.User != nil {
			shared.Username = row.User.Username
		}
		sharedWith = append(sharedWith, shared)
	}

	return domain.PermissionListResponse{
		IsPublic:            recipe.IsPublic,
		IsExperimentsPublic: recipe.IsExperimentsPublic,
		SharedWith:          sharedWith,
	}, nil
}

func (s *permissionService) CreateGrant(ctx context.Context, actorID, recipeID string, req domain.GrantPermissionRequest) error {
	recipe, err := s.permissionRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}

	grantee, err := s.permissionRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if grantee == nil {
		return domain.ErrUserNotFound
	}
	if grantee.ID == recipe.UserID {
		return domain.ErrCannotGrantOwner
	}

	permission := &entities.Permission{
		UserID:        grantee.ID,
		RecipeID:      recipe.ID,
		CanEdit:       req.CanEdit,
		CanExperiment: req.CanExperiment,
	}
	if err := s.permissionRepository.CreatePermission(ctx, permission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrPermissionExists
		}
		return err
	}

	// Notify the grantee; the grant itself already committed.
	owner, err := s.permissionRepository.GetUserByID(ctx, recipe.UserID.String())
	if err == nil && owner != nil {
		if err := mailing.SendShareNotification(grantee.Email, owner.Username, recipe.ID.String()); err != nil {
			log.Printf("share notification to %s failed: %v", grantee.Email, err)
		}
	}
	return nil
}

func (s *permissionService) UpdateGrant(ctx context.Context, actorID, recipeID, granteeID string, req domain.UpdatePermissionRequest) error {
	recipe, err := s.permissionRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}

	grant, err := s.permissionRepository.GetPermission(ctx, granteeID, recipeID)
	if err != nil {
		return err
	}
	if grant == nil {
		return domain.ErrPermissionNotFound
	}

	grant.CanEdit = req.CanEdit
	grant.CanExperiment = req.CanExperiment
	return s.permissionRepository.UpdatePermission(ctx, grant)
}

func (s *permissionService) RevokeGrant(ctx context.Context, actorID, recipeID, granteeID string) error {
	recipe, err := s.permissionRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if err := s.RequireCapability(ctx, actorID, recipe, domain.CapabilityOwner); err != nil {
		return err
	}

	grant, err := s.permissionRepository.GetPermission(ctx, granteeID, recipeID)
	if err != nil {
		return err
	}
	if grant == nil {
		return domain.ErrPermissionNotFound
	}

	return s.permissionRepository.DeletePermission(ctx, granteeID, recipeID)
}

func toRecipeSummaries(recipes []*entities.Recipe) []domain.RecipeSummary {
	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summary := domain.RecipeSummary{
			ID:                  recipe.ID.String(),
			SourceURL:           recipe.SourceURL,
			IsPublic:            recipe.IsPublic,
			IsExperimentsPublic: recipe.IsExperimentsPublic,
			LastModified:        recipe.LastModified,
		}
		if recipe.ForkedFrom != nil {
			summary.ForkedFrom = recipe.ForkedFrom.String()
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
