package models

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const TwoFACodeLength = 6

var twoFACodeRange = big.NewInt(1_000_000)

// TwoFACode is a 6-digit one-time code.
type TwoFACode struct {
	value string
}

// NewTwoFACode draws a uniformly random code from crypto/rand.
func NewTwoFACode() (TwoFACode, error) {
	n, err := rand.Int(rand.Reader, twoFACodeRange)
	if err != nil {
		return TwoFACode{}, fmt.Errorf("generate 2FA code: %w", err)
	}
	return TwoFACode{value: fmt.Sprintf("%06d", n.Int64())}, nil
}

// ParseTwoFACode accepts exactly six ASCII digits.
func ParseTwoFACode(raw string) (TwoFACode, error) {
	if len(raw) != TwoFACodeLength {
		return TwoFACode{}, ErrTwoFACodeLength
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return TwoFACode{}, ErrTwoFACodeFormat
		}
	}
	return TwoFACode{value: raw}, nil
}

func (c TwoFACode) String() string {
	return c.value
}

// Equal compares in constant time.
func (c TwoFACode) Equal(other TwoFACode) bool {
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(other.value)) == 1
}

// LoginAttemptID identifies one pending second-factor challenge.
type LoginAttemptID struct {
	value string
}

func NewLoginAttemptID() LoginAttemptID {
	return LoginAttemptID{value: uuid.NewString()}
}

// ParseLoginAttemptID accepts any string that parses as a UUID and keeps its
// canonical form.
func ParseLoginAttemptID(raw string) (LoginAttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return LoginAttemptID{}, ErrInvalidLoginAttemptID
	}
	return LoginAttemptID{value: id.String()}, nil
}

func (id LoginAttemptID) String() string {
	return id.value
}

// Equal compares in constant time.
func (id LoginAttemptID) Equal(other LoginAttemptID) bool {
	return subtle.ConstantTimeCompare([]byte(id.value), []byte(other.value)) == 1
}
