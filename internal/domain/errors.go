package domain

import "errors"

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRegistrationFailed  = errors.New("device registration failed")
	ErrFatalAssistantError = errors.New("fatal assistant error")
	ErrSessionClosed       = errors.New("assistant session closed")
)
