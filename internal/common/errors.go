// Package common defines sentinel errors and constants shared by the
// EduPass server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials is returned for every login failure, whether the
	// email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Uniqueness violations surfaced to callers.
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateCredential = errors.New("credential already exists for this site")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// ErrDecryption is returned when a stored secret cannot be decrypted.
	ErrDecryption = errors.New("decryption failed")
)
