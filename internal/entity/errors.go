package entity

import "errors"

// Domain errors
var (
	// Material errors
	ErrMaterialNotFound = errors.New("material not found")

	// File errors
	ErrInvalidFile  = errors.New("invalid file")
	ErrFileTooLarge = errors.New("file too large")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
