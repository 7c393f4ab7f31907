package account

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicatedUsername = errors.New("username already taken")
	ErrDuplicatedEmail    = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNothingToUpdate    = errors.New("at least one field must be provided")
)
