package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister   = "account successfully created"
	MessageSuccessLogin      = "login success"
	MessageSuccessGetProfile = "success get user profile"

	MessageFailedRegister   = "failed to create account"
	MessageFailedLogin      = "failed to login"
	MessageFailedGetProfile = "failed to get user profile"

	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyTaken    = errors.New("email already taken")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
	ErrUsernameInvalid      = errors.New("username may only contain letters, digits, '-' and '_'")
	ErrCredentialsInvalid   = errors.New("invalid login or password")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Username string `json:"username" validate:"required,min=3,max=32"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
	}

	LoginRequest struct {
		// Login accepts either an email address or a username.
		Login    string `json:"login" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token    string `json:"token"`
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}

	RecipeSummary struct {
		ID                  string    `json:"id"`
		SourceURL           string    `json:"source_url,omitempty"`
		ForkedFrom          string    `json:"forked_from,omitempty"`
		IsPublic            bool      `json:"is_public"`
		IsExperimentsPublic bool      `json:"is_experiments_public"`
		LastModified        time.Time `json:"last_modified"`
	}

	UserProfileResponse struct {
		ID       string `json:"id"`
		Username string `json:"username"`

		// Recipes holds the subset of the profile owner's recipes the
		// viewer may see. SharedRecipes is populated only when a user
		// views their own profile.
		Recipes       []RecipeSummary `json:"recipes"`
		SharedRecipes []RecipeSummary `json:"shared_recipes,omitempty"`
	}
)
