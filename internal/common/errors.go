package common

import "errors"

// Failure taxonomy shared by the services. Handlers translate these into
// HTTP outcomes: ErrNotFound -> 404, ErrValidation -> re-rendered form,
// ErrUnauthorized -> silent redirect to a safe view, ErrUnauthenticated ->
// redirect to login. Anything else propagates as a server fault.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("not the owner")
	ErrUnauthenticated = errors.New("login required")
)
