package handler

import "errors"

var (
	// ErrNilDependency is returned by Init when app, cfg or registry is nil.
	ErrNilDependency = errors.New(ErrNilACRFatalLogMsg)

	// ErrInvalidFormData is returned when a submitted form cannot be parsed or
	// fails validation.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrUpstream is shown when the recipebook API can not be reached or fails.
	ErrUpstream = errors.New("the recipebook service is not available, please try again later")

	// ErrInternalServerError is returned for unexpected failures.
	ErrInternalServerError = errors.New("internal server error")
)
