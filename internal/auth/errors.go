package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrNotAuthenticated      = errors.New("Not authenticated")
	ErrEmailTaken            = errors.New("Email already registered")
	ErrUsernameTaken         = errors.New("Username already registered")
	ErrInvalidUsername       = errors.New("Username must be 3-30 characters (letters, digits, dot, underscore)")
	ErrInvalidPassword       = errors.New("Password must be at least 8 characters with a letter and a number")
	ErrInvalidFullname       = errors.New("Full name contains invalid characters")
	ErrInvalidRole           = errors.New("Role must be farmer or business")
)
