package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRecipe     = "recipe successfully created"
	MessageSuccessDeleteRecipe     = "recipe successfully deleted"
	MessageSuccessGetTimeline      = "success get recipe timeline"
	MessageSuccessCreateEdit       = "edit successfully created"
	MessageSuccessDeleteEdit       = "edit successfully deleted"
	MessageSuccessCreateExperiment = "experiment successfully created"
	MessageSuccessDeleteExperiment = "experiment successfully deleted"
	MessageSuccessGetPreviousEdit  = "success get previous edit"
	MessageSuccessUploadImage      = "image uploaded successfully"
	MessageSuccessExtractRecipe    = "recipe extracted successfully"

	MessageFailedCreateRecipe     = "failed to create recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedGetTimeline      = "failed to get recipe timeline"
	MessageFailedCreateEdit       = "failed to create edit"
	MessageFailedDeleteEdit       = "failed to delete edit"
	MessageFailedCreateExperiment = "failed to create experiment"
	MessageFailedDeleteExperiment = "failed to delete experiment"
	MessageFailedGetPreviousEdit  = "failed to get previous edit"
	MessageFailedUploadImage      = "failed to upload image"
	MessageFailedExtractRecipe    = "failed to extract recipe"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrRecipeForbidden       = errors.New("not allowed to view this recipe")
	ErrEditNotFound          = errors.New("edit not found")
	ErrExperimentNotFound    = errors.New("experiment not found")
	ErrFoundingEditProtected = errors.New("the founding edit of a recipe cannot be deleted")
	ErrExtractFailed         = errors.New("external recipe extraction failed")
)

// Capability names the access level a mutating operation requires.
type Capability string

const (
	CapabilityOwner      Capability = "owner"
	CapabilityEdit       Capability = "edit"
	CapabilityExperiment Capability = "experiment"
)

const (
	TimelineItemEdit       = "edit"
	TimelineItemExperiment = "experiment"
)

type (
	// Capabilities is the effective access a viewer holds on one recipe.
	// CanViewExperiments gates experiment timeline items only; it is not
	// folded into CanView.
	Capabilities struct {
		CanView            bool `json:"can_view"`
		CanEdit            bool `json:"can_edit"`
		CanExperiment      bool `json:"can_experiment"`
		CanViewExperiments bool `json:"can_view_experiments"`
	}

	CreateRecipeRequest struct {
		Title               string `json:"title" validate:"required"`
		Description         string `json:"description"`
		Ingredients         string `json:"ingredients" validate:"required"`
		Instructions        string `json:"instructions" validate:"required"`
		ImageURL            string `json:"image_url" validate:"omitempty,url"`
		SourceURL           string `json:"source_url" validate:"omitempty,url"`
		ForkedFrom          string `json:"forked_from" validate:"omitempty,uuid"`
		IsPublic            *bool  `json:"is_public"`
		IsExperimentsPublic bool   `json:"is_experiments_public"`
	}

	CreateRecipeResponse struct {
		ID     string `json:"id"`
		EditID string `json:"edit_id"`
	}

	CreateEditRequest struct {
		Title        string `json:"title" validate:"required"`
		Description  string `json:"description"`
		Ingredients  string `json:"ingredients" validate:"required"`
		Instructions string `json:"instructions" validate:"required"`
		ImageURL     string `json:"image_url" validate:"omitempty,url"`
	}

	CreateExperimentRequest struct {
		CommitMsg  string     `json:"commit_msg" validate:"required"`
		Notes      string     `json:"notes"`
		CreateDate *time.Time `json:"create_date"`
	}

	CreatedResponse struct {
		ID string `json:"id"`
	}

	// TimelineItem is the tagged union the timeline is built from. Type
	// discriminates which of the optional field sets is populated.
	TimelineItem struct {
		Type       string    `json:"type"`
		ID         string    `json:"id"`
		CommitDate time.Time `json:"commit_date"`
		CommitBy   string    `json:"commit_by,omitempty"`

		// edit fields
		Title        string `json:"title,omitempty"`
		Description  string `json:"description,omitempty"`
		Ingredients  string `json:"ingredients,omitempty"`
		Instructions string `json:"instructions,omitempty"`
		ImageURL     string `json:"image_url,omitempty"`

		// experiment fields
		CommitMsg  string     `json:"commit_msg,omitempty"`
		Notes      string     `json:"notes,omitempty"`
		CreateDate *time.Time `json:"create_date,omitempty"`
	}

	TimelineResponse struct {
		RecipeID      string         `json:"recipe_id"`
		Items         []TimelineItem `json:"timeline_items"`
		CanEdit       bool           `json:"can_edit"`
		CanExperiment bool           `json:"can_experiment"`
	}

	EditResponse struct {
		ID           string    `json:"id"`
		RecipeID     string    `json:"recipe_id"`
		Title        string    `json:"title"`
		Description  string    `json:"description"`
		Ingredients  string    `json:"ingredients"`
		Instructions string    `json:"instructions"`
		ImageURL     string    `json:"image_url,omitempty"`
		CommitDate   time.Time `json:"commit_date"`
		CommitBy     string    `json:"commit_by,omitempty"`
	}

	UploadImageResponse struct {
		ImageURL string `json:"image_url"`
	}

	ExtractedRecipe struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Ingredients  string `json:"ingredients"`
		Instructions string `json:"instructions"`
		ImageURL     string `json:"image_url,omitempty"`
	}
)
