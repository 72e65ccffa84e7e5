package user

import (
	"errors"

	"ordercore/domain/shared"
)

var (
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidUserID = errors.New("userId cannot be empty")
)

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		entity:   "user",
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidUserIDError() error {
	return &userDomainError{
		sentinel: ErrInvalidUserID,
		entity:   "user",
		field:    "userId",
		message:  "userId cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() error   { return e.sentinel }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }

// Is lets errors.Is(err, shared.ErrInvalidInput) match every user validation error
func (e *userDomainError) Is(target error) bool {
	return target == shared.ErrInvalidInput
}
