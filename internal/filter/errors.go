package filter

import "errors"

var errInvalidFilter = errors.New("invalid filter expression")
