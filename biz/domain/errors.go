package domain

import "fmt"

const (
	MessageInternalServerError = "internal server error"
)

type ErrorCode uint

const (
	ErrInternalServerError ErrorCode = iota + 1
	ErrNotFound
	ErrConflict
	ErrBadParamInput
)

type Error struct {
	orig error
	msg  string
	code ErrorCode
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
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

func (e *Error) Code() ErrorCode {
	return e.code
}
