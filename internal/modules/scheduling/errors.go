package scheduling

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidOperation = errors.New("invalid operation")
)
