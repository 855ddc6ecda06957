package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed        = errors.New("validation failed")
	ErrPlayerNameRequired      = errors.New("player name is required")
	ErrGameResultsRequired     = errors.New("at least one result entry is required")
	ErrDuplicatePlayerInGame   = errors.New("a player is listed more than once in the game")
	ErrResultPlayerNotFound    = errors.New("a referenced player does not exist")
	ErrInvalidPositionSequence = errors.New("positions must form a contiguous sequence starting at 1")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrInvalidDeletePassword   = errors.New("invalid deletion password")
	ErrResetTokenInvalid       = errors.New("invalid or expired reset token")

	// Conflict errors
	ErrPlayerNameConflict = errors.New("player name is already in use")

	// Entity-specific not-found errors (more context than the generic one)
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
)
