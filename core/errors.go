package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed
	ECONNECTION int = 124 // remote resource not connected
	EINTERNAL   int = 125 // internal error
	EPARSE      int = 126 // font description has no font definition
	EDRAWING    int = 127 // drawing cannot be read as a vector document
	ELAYOUT     int = 128 // degenerate font metrics or layout parameters
	EANOMALY    int = 129 // glyphs produced but not visible (advisory)
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission-error"
	case EINTERNAL:
		return "internal error"
	case EPARSE:
		return "font parse error"
	case EDRAWING:
		return "drawing load error"
	case ELAYOUT:
		return "layout error"
	case EANOMALY:
		return "render anomaly"
	}
	return "undefined error"
}

// Sentinel errors for the render pipeline. Errors created with ParseError,
// DrawingLoadError, LayoutError and RenderAnomaly wrap these, so clients may
// test with errors.Is.
var (
	ErrParse         = errors.New(errorText(EPARSE))
	ErrDrawingLoad   = errors.New(errorText(EDRAWING))
	ErrLayout        = errors.New(errorText(ELAYOUT))
	ErrRenderAnomaly = errors.New(errorText(EANOMALY))
)

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != e.error.Error() {
		return fmt.Sprintf("[%d] %v: %s", e.code, e.error, e.msg)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting NOERROR is returned.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// --- Pipeline errors -------------------------------------------------------

// ParseError signals that font bytes do not contain a font definition.
// It is fatal to text rendering, but not to a render pass.
func ParseError(format string, v ...interface{}) error {
	return WrapError(ErrParse, EPARSE, format, v...)
}

// DrawingLoadError signals that drawing bytes cannot be read as a vector
// document. The drawing contribution is omitted from the scene.
func DrawingLoadError(cause error, format string, v ...interface{}) error {
	if cause != nil {
		cause = fmt.Errorf("%w: %w", ErrDrawingLoad, cause)
	} else {
		cause = ErrDrawingLoad
	}
	return WrapError(cause, EDRAWING, format, v...)
}

// LayoutError signals degenerate font metrics or layout parameters, e.g. a
// non-positive units-per-em value.
func LayoutError(format string, v ...interface{}) error {
	return WrapError(ErrLayout, ELAYOUT, format, v...)
}

// RenderAnomaly is an advisory: glyphs have been produced, but their
// geometry will not be visible.
func RenderAnomaly(format string, v ...interface{}) error {
	return WrapError(ErrRenderAnomaly, EANOMALY, format, v...)
}

// IsAdvisory is a predicate: is err a non-fatal advisory?
func IsAdvisory(err error) bool {
	return errors.Is(err, ErrRenderAnomaly)
}

func UserError(err error) {
	if e, ok := err.(AppError); ok {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
