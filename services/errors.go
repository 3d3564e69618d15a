package services

import "errors"

// Errors returned by the gallery services. Callers match them with errors.Is;
// the returned error usually wraps one of these with more detail.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)
