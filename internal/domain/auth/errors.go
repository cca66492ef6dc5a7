package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid user or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token has expired")
)
