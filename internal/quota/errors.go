package quota

import "errors"

// ErrNotFound indicates no quota record exists for the user.
var ErrNotFound = errors.New("quota not found")
