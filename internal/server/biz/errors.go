package biz

import (
	"errors"
)

var (
	ErrInvalidJWT      = errors.New("invalid jwt token")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInternal        = errors.New("server internal error, please try again later")
)
