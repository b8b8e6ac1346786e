package auth

import "fmt"

type ErrorCode string

const (
	CodeEmailInUse      ErrorCode = "email-already-in-use"
	CodeInvalidEmail    ErrorCode = "invalid-email"
	CodeWeakPassword    ErrorCode = "weak-password"
	CodeUserNotFound    ErrorCode = "user-not-found"
	CodeWrongPassword   ErrorCode = "wrong-password"
	CodeInvalidToken    ErrorCode = "invalid-credential"
	CodeTooManyRequests ErrorCode = "too-many-requests"
	CodeUnavailable     ErrorCode = "network-request-failed"
	CodeInternal        ErrorCode = "internal-error"
)

var messages = map[ErrorCode]string{
	CodeEmailInUse:      "This email is already registered",
	CodeInvalidEmail:    "Invalid email address",
	CodeWeakPassword:    "The password must have at least 6 characters",
	CodeUserNotFound:    "No account exists with this email",
	CodeWrongPassword:   "Incorrect password",
	CodeInvalidToken:    "Invalid credentials",
	CodeTooManyRequests: "Too many attempts. Try again later",
	CodeUnavailable:     "Connection error. Check your internet connection",
	CodeInternal:        "Something went wrong. Try again",
}

// Error is an authentication failure carrying a message fit for the user.
type Error struct {
	Code ErrorCode
	Err  error
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Message() string {
	if msg, ok := messages[e.Code]; ok {
		return msg
	}
	return fmt.Sprintf("Error: %s", e.Code)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth/%s: %v", e.Code, e.Err)
	}
	return "auth/" + string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}
