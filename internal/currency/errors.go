package currency

import "errors"

// ErrNotANumber is returned when a string holds no parseable amount.
var ErrNotANumber = errors.New("not a number")
