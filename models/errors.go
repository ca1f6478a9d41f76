package models

import "errors"

var (
	ErrEmailRequired      = errors.New("users must have an email address")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrInactiveUser       = errors.New("user account is disabled")
)
