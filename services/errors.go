package services

import "errors"

// Shared error values used across services and the HTTP mapping layer.
var (
	// Generic not-found
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule failures
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTeamNameRequired   = errors.New("team name is required")
	ErrInvalidScore       = errors.New("match score must be non-negative")
	ErrInvalidQuantity    = errors.New("order quantity must be positive")

	// Admission control
	ErrRegistrationClosed   = errors.New("championship registration is not open")
	ErrDeadlinePassed       = errors.New("championship registration deadline has passed")
	ErrChampionshipFull     = errors.New("championship has no free slots")
	ErrRegistrationConflict = errors.New("team is already registered for this championship")

	// State-machine violations
	ErrInvalidRegistrationTransition       = errors.New("registration is not in the required state")
	ErrMatchAlreadyFinished                = errors.New("match is already finished or canceled")
	ErrInvalidMatchTransition              = errors.New("invalid match status transition")
	ErrInvalidChampionshipStatus           = errors.New("invalid championship status provided")
	ErrInvalidChampionshipStatusTransition = errors.New("invalid championship status transition")

	// Conflicts
	ErrUserEmailConflict        = errors.New("email address is already in use")
	ErrUserNicknameConflict     = errors.New("nickname is already in use")
	ErrTeamNameConflict         = errors.New("team name is already in use")
	ErrChampionshipSlugConflict = errors.New("championship slug is already in use")
	ErrNewsSlugConflict         = errors.New("news slug is already in use")
	ErrProductSlugConflict      = errors.New("product slug is already in use")
	ErrProductOutOfStock        = errors.New("product stock is insufficient")

	// Authentication and authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity-specific not-found (more context than the generic one)
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrNewsNotFound         = errors.New("news post not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")

	// Championship validation
	ErrChampionshipDatesRequired    = errors.New("championship dates are required")
	ErrChampionshipInvalidDeadline  = errors.New("championship registration deadline must not be after start date")
	ErrChampionshipInvalidDateRange = errors.New("championship end date must be after start date")
	ErrChampionshipInvalidCapacity  = errors.New("championship slots total must be positive")
	ErrChampionshipTeamsConflict    = errors.New("match teams must be distinct")
)
