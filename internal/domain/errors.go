package domain

import (
	"errors"
	"time"
)

var (
	// ErrUnauthenticated is returned when a credential is missing or cannot be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAlreadyAttemptedToday is returned when the user already took today's quiz.
	ErrAlreadyAttemptedToday = errors.New("you have already attempted today's quiz, please try again tomorrow")
	// ErrUserNotFound indicates an authenticated identity has no backing user record.
	ErrUserNotFound = errors.New("user data not found")
	// ErrUserExists is returned when registering an identity twice.
	ErrUserExists = errors.New("user already exists")
	// ErrMalformedSubmission indicates the answers payload is not well formed.
	ErrMalformedSubmission = errors.New("invalid answers format")
	// ErrInvalidRegistration indicates signup data failed validation.
	ErrInvalidRegistration = errors.New("name and a valid email are required")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
)

// AlreadyAttemptedError carries the prior attempt so callers can tell the user when it was.
type AlreadyAttemptedError struct {
	LastAttempt time.Time
}

func (e *AlreadyAttemptedError) Error() string {
	return ErrAlreadyAttemptedToday.Error()
}

func (e *AlreadyAttemptedError) Is(target error) bool {
	return target == ErrAlreadyAttemptedToday
}
