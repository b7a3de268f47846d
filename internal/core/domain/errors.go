package domain

import "errors"

var (
	ErrValidation = errors.New("validation rejected")
	ErrNotFound   = errors.New("not found")
)
