package user

import (
	"context"
	"regexp"
	"strings"

	"forkd/domain"
	"forkd/entities"
	"forkd/pkg/jwt"
	"forkd/pkg/permission"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetProfile(ctx context.Context, username string, viewerID string) (domain.UserProfileResponse, error)
	}

	userService struct {
		userRepository    UserRepository
		permissionService permission.PermissionService
		jwtService        jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, permissionService permission.PermissionService, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository:    userRepository,
		permissionService: permissionService,
		jwtService:        jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if !usernamePattern.MatchString(req.Username) {
		return domain.RegisterResponse{}, domain.ErrUsernameInvalid
	}

	existing, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if existing != nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyTaken
	}

	existing, err = s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if existing != nil {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	var user *entities.User
	var err error

	if strings.Contains(req.Login, "@") {
		user, err = s.userRepository.GetUserByEmail(ctx, req.Login)
	} else {
		user, err = s.userRepository.GetUserByUsername(ctx, req.Login)
	}
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	return domain.LoginResponse{
		Token:    s.jwtService.GenerateToken(user.ID.String()),
		UserID:   user.ID.String(),
		Username: user.Username,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, username string, viewerID string) (domain.UserProfileResponse, error) {
	owner, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.UserProfileResponse{}, err
	}
	if owner == nil {
		return domain.UserProfileResponse{}, domain.ErrUserNotFound
	}

	recipes, err := s.permissionService.GetViewableRecipes(ctx, owner.ID.String(), viewerID)
	if err != nil {
		return domain.UserProfileResponse{}, err
	}

	profile := domain.UserProfileResponse{
		ID:       owner.ID.String(),
		Username: owner.Username,
		Recipes:  recipes,
	}

	// Explicit shares are surfaced only on a user's own profile.
	if viewerID == owner.ID.String() {
		shared, err := s.permissionService.GetSharedWithMe(ctx, viewerID)
		if err != nil {
			return domain.UserProfileResponse{}, err
		}
		profile.SharedRecipes = shared
	}

	return profile, nil
}
