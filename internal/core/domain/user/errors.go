package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserDoesNotExist   = errors.New("user does not exist")
)

var (
	ErrRecoveryDetailsInvalid = errors.New("invalid recovery details")
	ErrInvalidRecoveryToken   = errors.New("invalid recovery token")
	ErrRecoveryTokenExpired   = errors.New("recovery token expired")
)
