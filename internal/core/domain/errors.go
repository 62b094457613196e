package domain

import "errors"

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrStoreUnavailable wraps every infrastructure failure coming from the
	// backing store. It is never retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)
