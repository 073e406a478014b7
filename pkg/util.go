package pkg

import (
	"errors"
	"fmt"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match the classification code as well as the wrapped cause.
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	ErrInternalServerError = errors.New("internal Server Error")
	ErrNotFound            = errors.New("your requested Item is not found")
	ErrBadParamInput       = errors.New("given Param is not valid")

	// import failures that leave the destination index unusable.
	ErrCreateIndex  = errors.New("index creation failed")
	ErrBulkIndex    = errors.New("bulk indexing failed")
	ErrPublishIndex = errors.New("index publication failed")
)

var MessageInternalServerError string = "internal server error"

// IsFatal reports whether err aborts an import run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCreateIndex) || errors.Is(err, ErrBulkIndex) || errors.Is(err, ErrPublishIndex)
}

// ErrorCode returns the classification code of err, or ErrInternalServerError when err
// carries none.
func ErrorCode(err error) error {
	var e *Error
	if errors.As(err, &e) && e.code != nil {
		return e.code
	}
	return ErrInternalServerError
}
