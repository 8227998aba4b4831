package services

import "errors"

// Domain errors. The service layer never lets raw storage errors escape
// for expected conditions; handlers translate these into the response
// envelope.
var (
	// Token lifecycle
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrTokenNotFound      = errors.New("refresh token not found")
	ErrTokenRevoked       = errors.New("refresh token revoked")
	ErrTokenReuseDetected = errors.New("token reuse detected")

	// Provider account linking
	ErrProviderConflict  = errors.New("provider account already linked")
	ErrProviderNotLinked = errors.New("provider not linked to user")
	ErrLastProvider      = errors.New("cannot unlink last provider account")

	// Users / RBAC
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfRoleChange   = errors.New("cannot change own role")
	ErrSuperadminTarget = errors.New("only superadmin may grant superadmin")
	ErrInvalidRole      = errors.New("invalid role")

	// Setup
	ErrSetupCompleted = errors.New("setup already completed")

	// API keys
	ErrAPIKeyNotFound = errors.New("api key not found")
	ErrAPIKeyInvalid  = errors.New("invalid api key")

	// Collection browser
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidSortColumn  = errors.New("column is not sortable")
)
