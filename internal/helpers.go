package internal

import (
	"github.com/google/uuid"
)

// ContextValue returns the value stored under key if it has type T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// ParamUUID parses the named URL parameter as a UUID.
// Returns a 400 HTTPError with message if the parameter is not a valid UUID.
func ParamUUID(c Context, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, ErrBadRequest(message, WithError(err))
	}
	return id, nil
}
