package permission

import (
	"context"
	"errors"
	"testing"
	"time"

	"forkd/domain"
	"forkd/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakePermissionRepository struct {
	users   map[string]*entities.User
	recipes map[string]*entities.Recipe
	grants  []*entities.Permission
}

func newFakePermissionRepository() *fakePermissionRepository {
	return &fakePermissionRepository{
		users:   map[string]*entities.User{},
		recipes: map[string]*entities.Recipe{},
	}
}

func (f *fakePermissionRepository) addUser(username string) *entities.User {
	user := &entities.User{ID: uuid.New(), Username: username, Email: username + "@example.com"}
	f.users[user.ID.String()] = user
	return user
}

func (f *fakePermissionRepository) addRecipe(owner *entities.User, isPublic, isExperimentsPublic bool) *entities.Recipe {
	recipe := &entities.Recipe{
		ID:                  uuid.New(),
		UserID:              owner.ID,
		IsPublic:            isPublic,
		IsExperimentsPublic: isExperimentsPublic,
		LastModified:        time.Now(),
	}
	f.recipes[recipe.ID.String()] = recipe
	return recipe
}

func (f *fakePermissionRepository) addGrant(user *entities.User, recipe *entities.Recipe, canEdit, canExperiment bool) *entities.Permission {
	grant := &entities.Permission{
		ID:            uuid.New(),
		UserID:        user.ID,
		RecipeID:      recipe.ID,
		CanEdit:       canEdit,
		CanExperiment: canExperiment,
		User:          user,
	}
	f.grants = append(f.grants, grant)
	return grant
}

func (f *fakePermissionRepository) GetPermission(_ context.Context, userID, recipeID string) (*entities.Permission, error) {
	for _, grant := range f.grants {
		if grant.UserID.String() == userID && grant.RecipeID.String() == recipeID {
			return grant, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionRepository) GetPermissionsByRecipe(_ context.Context, recipeID string) ([]*entities.Permission, error) {
	var rows []*entities.Permission
	for _, grant := range f.grants {
		if grant.RecipeID.String() == recipeID {
			rows = append(rows, grant)
		}
	}
	return rows, nil
}

func (f *fakePermissionRepository) GetPermissionsByUser(_ context.Context, userID string) ([]*entities.Permission, error) {
	var rows []*entities.Permission
	for _, grant := range f.grants {
		if grant.UserID.String() == userID {
			rows = append(rows, grant)
		}
	}
	return rows, nil
}

func (f *fakePermissionRepository) CreatePermission(_ context.Context, permission *entities.Permission) error {
	for _, grant := range f.grants {
		if grant.UserID == permission.UserID && grant.RecipeID == permission.RecipeID {
			return gorm.ErrDuplicatedKey
		}
	}
	permission.ID = uuid.New()
	f.grants = append(f.grants, permission)
	return nil
}

func (f *fakePermissionRepository) UpdatePermission(_ context.Context, permission *entities.Permission) error {
	for _, grant := range f.grants {
		if grant.ID == permission.ID {
			grant.CanEdit = permission.CanEdit
			grant.CanExperiment = permission.CanExperiment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePermissionRepository) DeletePermission(_ context.Context, userID, recipeID string) error {
	for i, grant := range f.grants {
		if grant.UserID.String() == userID && grant.RecipeID.String() == recipeID {
			f.grants = append(f.grants[:i], f.grants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePermissionRepository) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	return f.recipes[id], nil
}

func (f *fakePermissionRepository) GetRecipesByOwner(_ context.Context, ownerID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID.String() == ownerID {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func (f *fakePermissionRepository) GetRecipesSharedWith(_ context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	for _, grant := range f.grants {
		if grant.UserID.String() == userID {
			if recipe, ok := f.recipes[grant.RecipeID.String()]; ok {
				recipes = append(recipes, recipe)
			}
		}
	}
	return recipes, nil
}

func (f *fakePermissionRepository) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakePermissionRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	return f.users[id], nil
}

func TestResolveCapabilitiesOwner(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")

	// ownership wins no matter how restrictive the flags are
	recipe := repo.addRecipe(owner, false, false)

	caps, err := service.ResolveCapabilities(context.Background(), owner.ID.String(), recipe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !caps.CanView || !caps.CanEdit || !caps.CanExperiment || !caps.CanViewExperiments {
		t.Fatalf("owner should hold every capability, got %+v", caps)
	}
}

func TestResolveCapabilitiesViewers(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	grantee := repo.addUser("bob")

	public := repo.addRecipe(owner, true, true)
	publicHiddenExps := repo.addRecipe(owner, true, false)
	private := repo.addRecipe(owner, false, false)
	repo.addGrant(grantee, private, false, true)
	privateEditOnly := repo.addRecipe(owner, false, false)
	repo.addGrant(grantee, privateEditOnly, true, false)

	tests := []struct {
		name     string
		viewerID string
		recipe   *entities.Recipe
		want     domain.Capabilities
	}{
		{
			name:     "anonymous on public recipe",
			viewerID: "",
			recipe:   public,
			want:     domain.Capabilities{CanView: true, CanViewExperiments: true},
		},
		{
			name:     "anonymous on private recipe",
			viewerID: "",
			recipe:   private,
			want:     domain.Capabilities{},
		},
		{
			name:     "stranger cannot see hidden experiments",
			viewerID: grantee.ID.String(),
			recipe:   publicHiddenExps,
			want:     domain.Capabilities{CanView: true},
		},
		{
			name:     "experiment grant opens a private recipe",
			viewerID: grantee.ID.String(),
			recipe:   private,
			want:     domain.Capabilities{CanView: true, CanExperiment: true, CanViewExperiments: true},
		},
		{
			name:     "edit grant implies experiment visibility",
			viewerID: grantee.ID.String(),
			recipe:   privateEditOnly,
			want:     domain.Capabilities{CanView: true, CanEdit: true, CanViewExperiments: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, err := service.ResolveCapabilities(context.Background(), tt.viewerID, tt.recipe)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if caps != tt.want {
				t.Errorf("got %+v, want %+v", caps, tt.want)
			}
		})
	}
}

func TestRequireCapabilityIndependence(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	collaborator := repo.addUser("bob")
	recipe := repo.addRecipe(owner, true, true)
	repo.addGrant(collaborator, recipe, true, false)

	ctx := context.Background()

	if err := service.RequireCapability(ctx, collaborator.ID.String(), recipe, domain.CapabilityEdit); err != nil {
		t.Errorf("edit grant should satisfy the edit gate: %v", err)
	}
	if err := service.RequireCapability(ctx, collaborator.ID.String(), recipe, domain.CapabilityExperiment); !errors.Is(err, domain.ErrUserNotAllowed) {
		t.Errorf("edit grant must not satisfy the experiment gate, got %v", err)
	}
	if err := service.RequireCapability(ctx, collaborator.ID.String(), recipe, domain.CapabilityOwner); !errors.Is(err, domain.ErrUserNotAllowed) {
		t.Errorf("non-owner must fail the owner gate, got %v", err)
	}
	if err := service.RequireCapability(ctx, owner.ID.String(), recipe, domain.CapabilityOwner); err != nil {
		t.Errorf("owner must pass every gate: %v", err)
	}
	if err := service.RequireCapability(ctx, "", recipe, domain.CapabilityExperiment); !errors.Is(err, domain.ErrUserNotAllowed) {
		t.Errorf("anonymous actor must fail the gates, got %v", err)
	}
}

func TestGetViewableRecipes(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	grantee := repo.addUser("bob")
	stranger := repo.addUser("carol")

	public := repo.addRecipe(owner, true, true)
	private := repo.addRecipe(owner, false, false)
	repo.addGrant(grantee, private, false, true)

	ctx := context.Background()

	own, err := service.GetViewableRecipes(ctx, owner.ID.String(), owner.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("owner should see both recipes, got %d", len(own))
	}

	granted, err := service.GetViewableRecipes(ctx, owner.ID.String(), grantee.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(granted) != 2 {
		t.Errorf("grantee should see the public and the shared private recipe, got %d", len(granted))
	}

	strangers, err := service.GetViewableRecipes(ctx, owner.ID.String(), stranger.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strangers) != 1 || strangers[0].ID != public.ID.String() {
		t.Errorf("stranger should see only the public recipe, got %+v", strangers)
	}
}

func TestGetSharedWithMe(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	grantee := repo.addUser("bob")
	private := repo.addRecipe(owner, false, false)
	repo.addGrant(grantee, private, false, false)

	shared, err := service.GetSharedWithMe(context.Background(), grantee.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shared) != 1 || shared[0].ID != private.ID.String() {
		t.Errorf("explicit share must be surfaced even on a private recipe, got %+v", shared)
	}
}

func TestCreateGrant(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	grantee := repo.addUser("bob")
	recipe := repo.addRecipe(owner, false, false)

	ctx := context.Background()
	req := domain.GrantPermissionRequest{Username: grantee.Username, CanEdit: true}

	if err := service.CreateGrant(ctx, grantee.ID.String(), recipe.ID.String(), req); !errors.Is(err, domain.ErrUserNotAllowed) {
		t.Errorf("only the owner may grant, got %v", err)
	}
	if err := service.CreateGrant(ctx, owner.ID.String(), recipe.ID.String(), req); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := service.CreateGrant(ctx, owner.ID.String(), recipe.ID.String(), req); !errors.Is(err, domain.ErrPermissionExists) {
		t.Errorf("duplicate grant must report a conflict, got %v", err)
	}
	if err := service.CreateGrant(ctx, owner.ID.String(), recipe.ID.String(), domain.GrantPermissionRequest{Username: "alice"}); !errors.Is(err, domain.ErrCannotGrantOwner) {
		t.Errorf("granting to the owner must be rejected, got %v", err)
	}
	if err := service.CreateGrant(ctx, owner.ID.String(), recipe.ID.String(), domain.GrantPermissionRequest{Username: "nobody"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown grantee must report not found, got %v", err)
	}
}

func TestUpdateAndRevokeGrant(t *testing.T) {
	repo := newFakePermissionRepository()
	service := NewPermissionService(repo)
	owner := repo.addUser("alice")
	grantee := repo.addUser("bob")
	recipe := repo.addRecipe(owner, true, true)
	repo.addGrant(grantee, recipe, false, true)

	ctx := context.Background()

	err := service.UpdateGrant(ctx, owner.ID.String(), recipe.ID.String(), grantee.ID.String(), domain.UpdatePermissionRequest{CanEdit: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	grant, _ := repo.GetPermission(ctx, grantee.ID.String(), recipe.ID.String())
	if grant == nil || !grant.CanEdit || grant.CanExperiment {
		t.Errorf("update did not apply, got %+v", grant)
	}

	if err := service.RevokeGrant(ctx, owner.ID.String(), recipe.ID.String(), grantee.ID.String()); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	grant, _ = repo.GetPermission(ctx, grantee.ID.String(), recipe.ID.String())
	if grant != nil {
		t.Errorf("grant should be gone after revoke")
	}

	err = service.RevokeGrant(ctx, owner.ID.String(), recipe.ID.String(), grantee.ID.String())
	if !errors.Is(err, domain.ErrPermissionNotFound) {
		t.Errorf("revoking a missing grant must report not found, got %v", err)
	}
}
