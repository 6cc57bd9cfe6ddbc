package pricing

import "errors"

var ErrInvalidParameter = errors.New("invalid parameter")
