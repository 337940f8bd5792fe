package domain

import "errors"

var (
	MessageSuccessGetPermissions  = "success get recipe permissions"
	MessageSuccessGrantPermission = "permission granted successfully"
	MessageSuccessUpdateGrant     = "permission updated successfully"
	MessageSuccessRevokeGrant     = "permission revoked successfully"

	MessageFailedGetPermissions  = "failed to get recipe permissions"
	MessageFailedGrantPermission = "failed to grant permission"
	MessageFailedUpdateGrant     = "failed to update permission"
	MessageFailedRevokeGrant     = "failed to revoke permission"

	ErrPermissionExists   = errors.New("permission already granted for this user")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrCannotGrantOwner   = errors.New("cannot grant permission to the recipe owner")
)

type (
	GrantPermissionRequest struct {
		Username      string `json:"username" validate:"required"`
		CanEdit       bool   `json:"can_edit"`
		CanExperiment bool   `json:"can_experiment"`
	}

	UpdatePermissionRequest struct {
		CanEdit       bool `json:"can_edit"`
		CanExperiment bool `json:"can_experiment"`
	}

	SharedUser struct {
		UserID        string `json:"user_id"`
		Username      string `json:"username"`
		CanEdit       bool   `json:"can_edit"`
		CanExperiment bool   `json:"can_experiment"`
	}

	PermissionListResponse struct {
		IsPublic            bool         `json:"is_public"`
		IsExperimentsPublic bool         `json:"is_experiments_public"`
		SharedWith          []SharedUser `json:"shared_with"`
	}
)
