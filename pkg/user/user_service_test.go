package user

import (
	"context"
	"errors"
	"testing"

	"forkd/domain"
	"forkd/entities"
	"forkd/pkg/jwt"
	"forkd/pkg/permission"

	"github.com/google/uuid"
)

type fakeUserRepository struct {
	users []*entities.User
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	user.ID = uuid.New()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	for _, user := range f.users {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

// profileStore implements just the recipe and grant lookups GetProfile
// drives through the permission service.
type profileStore struct {
	recipes []*entities.Recipe
	grants  []*entities.Permission
}

func (p *profileStore) GetPermission(_ context.Context, userID, recipeID string) (*entities.Permission, error) {
	for _, grant := range p.grants {
		if grant.UserID.String() == userID && grant.RecipeID.String() == recipeID {
			return grant, nil
		}
	}
	return nil, nil
}

func (p *profileStore) GetPermissionsByRecipe(context.Context, string) ([]*entities.Permission, error) {
	return nil, nil
}

func (p *profileStore) GetPermissionsByUser(_ context.Context, userID string) ([]*entities.Permission, error) {
	var rows []*entities.Permission
	for _, grant := range p.grants {
		if grant.UserID.String() == userID {
			rows = append(rows, grant)
		}
	}
	return rows, nil
}

func (p *profileStore) CreatePermission(context.Context, *entities.Permission) error { return nil }
func (p *profileStore) UpdatePermission(context.Context, *entities.Permission) error { return nil }
func (p *profileStore) DeletePermission(context.Context, string, string) error       { return nil }

func (p *profileStore) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	for _, recipe := range p.recipes {
		if recipe.ID.String() == id {
			return recipe, nil
		}
	}
	return nil, nil
}

func (p *profileStore) GetRecipesByOwner(_ context.Context, ownerID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	for _, recipe := range p.recipes {
		if recipe.UserID.String() == ownerID {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func (p *profileStore) GetRecipesSharedWith(_ context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	for _, grant := range p.grants {
		if grant.UserID.String() != userID {
			continue
		}
		for _, recipe := range p.recipes {
			if recipe.ID == grant.RecipeID {
				recipes = append(recipes, recipe)
			}
		}
	}
	return recipes, nil
}

func (p *profileStore) GetUserByUsername(context.Context, string) (*entities.User, error) {
	return nil, nil
}
func (p *profileStore) GetUserByID(context.Context, string) (*entities.User, error) {
	return nil, nil
}

func newTestUserService() (*fakeUserRepository, *profileStore, UserService) {
	repo := &fakeUserRepository{}
	store := &profileStore{}
	service := NewUserService(repo, permission.NewPermissionService(store), jwt.NewJWTService())
	return repo, store, service
}

func TestRegister(t *testing.T) {
	_, _, service := newTestUserService()
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.ID == "" || res.Username != "alice" {
		t.Errorf("unexpected register response: %+v", res)
	}

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrEmailAlreadyTaken) {
		t.Errorf("duplicate email: got %v", err)
	}

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrUsernameAlreadyTaken) {
		t.Errorf("duplicate username: got %v", err)
	}

	_, err = service.Register(ctx, domain.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob smith",
		Password: "correct-horse",
	})
	if !errors.Is(err, domain.ErrUsernameInvalid) {
		t.Errorf("username with a space: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo, _, service := newTestUserService()
	ctx := context.Background()

	if _, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	stored, _ := repo.GetUserByUsername(ctx, "alice")
	if stored.Password == "correct-horse" {
		t.Fatalf("password must be stored hashed")
	}

	tests := []struct {
		name    string
		login   string
		pass    string
		wantErr error
	}{
		{"by email", "alice@example.com", "correct-horse", nil},
		{"by username", "alice", "correct-horse", nil},
		{"wrong password", "alice", "battery-staple", domain.ErrCredentialsInvalid},
		{"unknown login", "nobody", "correct-horse", domain.ErrCredentialsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := service.Login(ctx, domain.LoginRequest{Login: tt.login, Password: tt.pass})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (res.Token == "" || res.UserID != stored.ID.String()) {
				t.Errorf("unexpected login response: %+v", res)
			}
		})
	}
}

func TestGetProfile(t *testing.T) {
	repo, store, service := newTestUserService()
	ctx := context.Background()

	alice := &entities.User{Email: "alice@example.com", Username: "alice"}
	bob := &entities.User{Email: "bob@example.com", Username: "bob"}
	repo.CreateUser(ctx, alice)
	repo.CreateUser(ctx, bob)

	public := &entities.Recipe{ID: uuid.New(), UserID: alice.ID, IsPublic: true}
	private := &entities.Recipe{ID: uuid.New(), UserID: alice.ID}
	bobsPrivate := &entities.Recipe{ID: uuid.New(), UserID: bob.ID}
	store.recipes = append(store.recipes, public, private, bobsPrivate)
	store.grants = append(store.grants, &entities.Permission{
		ID: uuid.New(), UserID: alice.ID, RecipeID: bobsPrivate.ID, CanExperiment: true,
	})

	// strangers see only the public recipe and no shares
	profile, err := service.GetProfile(ctx, "alice", bob.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.Recipes) != 1 || profile.Recipes[0].ID != public.ID.String() {
		t.Errorf("viewer should see only the public recipe, got %+v", profile.Recipes)
	}
	if profile.SharedRecipes != nil {
		t.Errorf("shares belong to the profile owner's own view only")
	}

	// own profile lists everything plus recipes shared with the user
	profile, err = service.GetProfile(ctx, "alice", alice.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.Recipes) != 2 {
		t.Errorf("owner should see both recipes, got %d", len(profile.Recipes))
	}
	if len(profile.SharedRecipes) != 1 || profile.SharedRecipes[0].ID != bobsPrivate.ID.String() {
		t.Errorf("own profile should list the recipe shared by bob, got %+v", profile.SharedRecipes)
	}

	if _, err := service.GetProfile(ctx, "nobody", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("missing user: got %v", err)
	}
}
