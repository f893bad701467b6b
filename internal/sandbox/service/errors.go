package service

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")

// InputError is a request the sandbox refuses as malformed. Message is shown
// to the caller as is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// ForbiddenError is an authenticated request outside the caller's rights.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

func (a Actor) IsSeller() bool { return a.Role == "seller" }
