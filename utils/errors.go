package utils

import "fmt"

// WrapIdentityError returns a wrapped identity error
func WrapIdentityError(err error) error {
	return wrap("identity", err)
}

// WrapCreateFolderError returns a wrapped create folder error
func WrapCreateFolderError(err error) error {
	return wrap("create folder", err)
}

// WrapStatError returns a wrapped stat error
func WrapStatError(err error) error {
	return wrap("stat", err)
}

// WrapPutError returns a wrapped put error
func WrapPutError(err error) error {
	return wrap("put", err)
}

// WrapGetError returns a wrapped get error
func WrapGetError(err error) error {
	return wrap("get", err)
}

// WrapMoveError returns a wrapped move error
func WrapMoveError(err error) error {
	return wrap("move", err)
}

// WrapDeleteError returns a wrapped delete error
func WrapDeleteError(err error) error {
	return wrap("delete", err)
}

// WrapListError returns a wrapped list error
func WrapListError(err error) error {
	return wrap("list", err)
}

// wrap returns nil for a nil err so call sites can wrap unconditionally
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s error: %w", op, err)
}
