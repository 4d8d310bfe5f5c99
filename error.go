package docsearch

import (
	"errors"
	"fmt"
	"io/fs"
)

// Application error codes.
const (
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EPERMISSION   = "permission_denied"
	EUNSUPPORTED  = "unsupported_format"
	ECORRUPT      = "corrupt_document"
	EINVALIDRANGE = "invalid_range"
	EPATTERN      = "invalid_pattern"
)

// Error represents an application-specific error. Errors returned by
// implementations should be *Error so callers can branch on Code.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the underlying error text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// OpenError classifies an error returned while opening or reading the
// document at path. Missing files map to ENOTFOUND, access failures to
// EPERMISSION and anything else (malformed archives, truncated streams) to
// ECORRUPT. Application errors pass through unchanged.
func OpenError(path string, err error) error {
	var e *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &e):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return Errorf(ENOTFOUND, "file not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return Errorf(EPERMISSION, "permission denied: %s", path)
	default:
		return Errorf(ECORRUPT, "cannot parse %s: %v", path, err)
	}
}
