package identity

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("account not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
)
