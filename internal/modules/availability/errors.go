package availability

import "errors"

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDuplicateEntry   = errors.New("duplicate entry")
	ErrNotFound         = errors.New("nonexistent entry")
)
