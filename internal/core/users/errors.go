package users

import "errors"

// ErrUserNotFound is returned when a directory lookup finds no matching record
var ErrUserNotFound = errors.New("user not found")
