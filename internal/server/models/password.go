package models

import (
	"log/slog"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128

	redacted = "[REDACTED]"
)

// Password is a clear-text password of acceptable length. It never prints
// its content.
type Password struct {
	value string
}

// NewPassword accepts raw when it is between 8 and 128 characters long.
func NewPassword(raw string) (Password, error) {
	n := utf8.RuneCountInString(raw)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return Password{}, ErrInvalidPassword
	}
	return Password{value: raw}, nil
}

func (p Password) Expose() string {
	return p.value
}

func (p Password) IsZero() bool {
	return p.value == ""
}

func (p Password) String() string {
	return redacted
}

func (p Password) GoString() string {
	return "models.Password(" + redacted + ")"
}

func (p Password) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

func (p Password) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}
