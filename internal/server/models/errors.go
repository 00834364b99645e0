// Package models holds the validated credential value types shared by the
// stores, the token engine and the session orchestrators.
package models

import "errors"

var (
	ErrInvalidEmail          = errors.New("invalid email")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrTwoFACodeLength       = errors.New("2FA code must be 6 digits long")
	ErrTwoFACodeFormat       = errors.New("2FA code must contain only digits")
	ErrInvalidLoginAttemptID = errors.New("invalid login attempt id")
)
