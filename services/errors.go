package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure a visitor can cause is one of these, wrapped in
// *Error with the message shown to them.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateUser     = errors.New("duplicate user")
	ErrNotFound          = errors.New("not found")
	ErrDeliveryFailure   = errors.New("delivery failure")
	ErrChallengeMismatch = errors.New("challenge mismatch")
)

// Messages returned by the auth flows. The wording matches what the pages
// already display.
const (
	MsgEmailMissing     = "email not found"
	MsgFirstNameMissing = "first name not found"
	MsgUserExists       = "user already exists"
	MsgIncorrectEmail   = "incorrect email"
	MsgIncorrectPhone   = "incorrect phone number"
	MsgOTPSentToEmail   = "otp sent to email"
	MsgOTPSent          = "otp sent"
	MsgOTPInvalid       = "invalid or expired otp"
	MsgOTPVerified      = "otp verified"
	MsgUserMissing      = "User does not exist. Please sign up."
	MsgLoggedIn         = "Logged in successfully"
	MsgLoggedOut        = "Logged out"
)

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result is the {success, message} document every auth endpoint answers with.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func succeed(msg string) Result { return Result{Success: true, Message: msg} }

func fail(msg string) Result { return Result{Success: false, Message: msg} }

// ResultFor turns a service error into a failed Result. ok is false for
// errors that are not part of the taxonomy (storage outages and the like).
func ResultFor(err error) (Result, bool) {
	var se *Error
	if errors.As(err, &se) {
		return fail(se.Message), true
	}
	return Result{}, false
}
