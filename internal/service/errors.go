// Package service provides business logic implementation for the application.
package service

import "errors"

var (
	// ErrValidation marks client mistakes on the send path: missing
	// destination, or neither body nor media. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration marks missing provider credentials, checked before
	// any transmission attempt.
	ErrConfiguration = errors.New("provider is not configured")

	// ErrTransmission marks a provider rejection or timeout. No local
	// record is written when it occurs.
	ErrTransmission = errors.New("provider send failed")
)
