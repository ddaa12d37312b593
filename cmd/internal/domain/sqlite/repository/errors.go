package repository

import "errors"

// ErrPermissionDenied is returned when a write is refused by tier policy or
// row ownership.
var ErrPermissionDenied = errors.New("permission denied")
