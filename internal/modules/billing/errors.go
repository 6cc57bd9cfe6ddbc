package billing

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthorized     = errors.New("unauthorized")
)
