package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyReviewed     = errors.New("membership request already reviewed")
	ErrConflict            = errors.New("conflict")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInactiveClub        = errors.New("club is not active")
)
