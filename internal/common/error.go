// Package common defines the error taxonomy shared by the storefront
// repositories, services and the HTTP layer. Callers should use errors.Is
// against the kind sentinels to decide how to react to a failure.
package common

import "errors"

var (
	// Kinds. Every error returned by a service wraps exactly one of them.
	ErrorValidation    = errors.New("validation error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInternal      = errors.New("internal error")
)

// Error is a failure with a stable, client-safe message and a kind.
type Error struct {
	kind error
	msg  string
}

// NewError returns an error of the given kind carrying msg.
func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind sentinel of e.
func (e *Error) Kind() error { return e.kind }

var (
	// Authenticator.
	ErrValidationCredentials = NewError(ErrorValidation, "email and password are required")
	ErrDuplicateIdentity     = NewError(ErrorAlreadyExists, "user already exists")
	ErrInvalidCredentials    = NewError(ErrorValidation, "invalid email or password")
	ErrMissingToken          = NewError(ErrorUnauthorized, "no token, authorization denied")
	ErrMalformedToken        = NewError(ErrorUnauthorized, "token is malformed")
	ErrInvalidToken          = NewError(ErrorUnauthorized, "token is not valid")
	ErrTokenExpired          = NewError(ErrInvalidToken, "token expired")
	ErrUnknownSubject        = NewError(ErrorUnauthorized, "user not found")

	// Authorization gate.
	ErrForbidden = NewError(ErrorForbidden, "access denied")

	// Cart.
	ErrCartLineNotFound = NewError(ErrorNotFound, "cart item not found")
	ErrInvalidQuantity  = NewError(ErrorValidation, "quantity must be at least 1")
	ErrQuantityTooLarge = NewError(ErrorValidation, "quantity exceeds the per-item limit")
	ErrInvalidProductID = NewError(ErrorValidation, "product id is required")

	// Orders.
	ErrEmptyOrder        = NewError(ErrorValidation, "order must contain at least one item")
	ErrUnknownProduct    = NewError(ErrorValidation, "order references an unknown product")
	ErrIncompleteAddress = NewError(ErrorValidation, "complete shipping address is required")
	ErrInvalidTotal      = NewError(ErrorValidation, "invalid order total")

	// Catalog.
	ErrProductNotFound = NewError(ErrorNotFound, "product not found")
	ErrInvalidProduct  = NewError(ErrorValidation, "name, category and a positive price are required")
)
