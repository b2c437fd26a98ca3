package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrNotRegistering  = errors.New("no registration in progress")
	ErrInvalidGender   = errors.New("gender label not recognized")
	ErrInvalidArgument = errors.New("invalid argument")
)
