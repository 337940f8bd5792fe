package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	SourceURL           string     `json:"source_url,omitempty"`
	ForkedFrom          *uuid.UUID `json:"forked_from,omitempty"` // lineage only, no FK
	IsPublic            bool       `gorm:"default:true" json:"is_public"`
	IsExperimentsPublic bool       `json:"is_experiments_public"`
	LastModified        time.Time  `gorm:"type:timestamp" json:"last_modified"`

	User        *User         `gorm:"foreignKey:UserID"`
	Edits       []*Edit       `gorm:"foreignKey:RecipeID"`
	Experiments []*Experiment `gorm:"foreignKey:RecipeID"`
	Permissions []*Permission `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type Edit struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID     uuid.UUID  `json:"recipe_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Ingredients  string     `gorm:"type:text" json:"ingredients"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	ImageURL     string     `json:"image_url,omitempty"`
	CommitDate   time.Time  `gorm:"type:timestamp" json:"commit_date"`
	CommitBy     *uuid.UUID `json:"commit_by,omitempty"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type Experiment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID   uuid.UUID  `json:"recipe_id"`
	CommitMsg  string     `json:"commit_msg"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CommitDate time.Time  `gorm:"type:timestamp" json:"commit_date"`
	CreateDate *time.Time `gorm:"type:timestamp" json:"create_date,omitempty"`
	CommitBy   *uuid.UUID `json:"commit_by,omitempty"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type Permission struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID `gorm:"uniqueIndex:idx_permissions_user_recipe" json:"user_id"`
	RecipeID      uuid.UUID `gorm:"uniqueIndex:idx_permissions_user_recipe" json:"recipe_id"`
	CanEdit       bool      `json:"can_edit"`
	CanExperiment bool      `json:"can_experiment"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
