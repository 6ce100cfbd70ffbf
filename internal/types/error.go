package types

import "fmt"

// CustomError carries an HTTP status and an error type out of middleware
// into the global error handler. Err is the underlying cause, if any.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

// NewError builds a CustomError wrapping cause
func NewError(code int, errorType, message string, cause error) *CustomError {
	return &CustomError{Code: code, Message: message, Type: errorType, Err: cause}
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}
