package models

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Email is a syntactically valid email address. The zero value is not a
// valid address. Two Emails are equal when their addresses are equal, so
// Email can be used as a map key.
type Email struct {
	value string
}

// NewEmail validates raw and wraps it.
func NewEmail(raw string) (Email, error) {
	if err := validate.Var(raw, "required,email,max=254"); err != nil {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: raw}, nil
}

// Expose returns the raw address. Use it only where the address must leave
// the process: storage keys, SQL parameters, outbound email, token subjects.
func (e Email) Expose() string {
	return e.value
}

func (e Email) IsZero() bool {
	return e.value == ""
}

// String returns a masked form such as "j***@example.com".
func (e Email) String() string {
	at := strings.LastIndexByte(e.value, '@')
	if at <= 0 {
		return "***"
	}
	return e.value[:1] + "***" + e.value[at:]
}

func (e Email) GoString() string {
	return "models.Email(" + e.String() + ")"
}

func (e Email) LogValue() slog.Value {
	return slog.StringValue(e.String())
}
