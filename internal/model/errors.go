package model

import "errors"

var (
	// Auth related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrTokenInvalid       = errors.New("token invalid")

	// Catalog related errors
	ErrProductNotFound = errors.New("product not found")
	ErrMissingImage    = errors.New("image file is required")
	ErrUploadFailed    = errors.New("image upload failed")
	ErrPersistFailed   = errors.New("catalog write failed")

	// Cart related errors
	ErrCartNotFound = errors.New("cart not found")

	// Blob related errors
	ErrBlobNotFound = errors.New("blob not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
