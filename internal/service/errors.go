package service

import "errors"

var (
	ErrValidation      = errors.New("error validation failed")
	ErrUnauthenticated = errors.New("error no authenticated session")
)
