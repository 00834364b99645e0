package common

import "errors"

var (

	// store specific errors
	ErrUserNotFound           = errors.New("user not found")
	ErrTokenAlreadyBanned     = errors.New("token already banned")
	ErrLoginAttemptIDNotFound = errors.New("login attempt id not found")

	// token engine errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Kind is the transport-independent class of an error returned by the
// session orchestrators.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidInput
	KindAlreadyExists
	KindIncorrectCredentials
	KindMissingToken
	KindTokenInvalid
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAlreadyExists:
		return "already_exists"
	case KindIncorrectCredentials:
		return "incorrect_credentials"
	case KindMissingToken:
		return "missing_token"
	case KindTokenInvalid:
		return "token_invalid"
	default:
		return "unexpected"
	}
}

// APIError is an error whose message is safe to show to the caller.
type APIError struct {
	Kind    Kind
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials       = &APIError{Kind: KindInvalidInput, Message: "Invalid credentials"}
	ErrEmailOrPasswordIncorrect = &APIError{Kind: KindInvalidInput, Message: "Email or password incorrect"}
	ErrMalformedLoginAttemptID  = &APIError{Kind: KindInvalidInput, Message: "Login attempt id is malformed"}
	ErrMalformedTwoFACode       = &APIError{Kind: KindInvalidInput, Message: "2FA code is malformed"}

	// ErrUserAlreadyExists is also returned by user stores on a duplicate
	// email.
	ErrUserAlreadyExists = &APIError{Kind: KindAlreadyExists, Message: "User already exists"}

	// ErrIncorrectCredentials is also returned by user stores on a password
	// mismatch.
	ErrIncorrectCredentials = &APIError{Kind: KindIncorrectCredentials, Message: "Incorrect credentials"}

	ErrMissingToken  = &APIError{Kind: KindMissingToken, Message: "Missing token"}
	ErrTokenNotValid = &APIError{Kind: KindTokenInvalid, Message: "Token is not valid"}

	ErrorInternal = &APIError{Kind: KindUnexpected, Message: "Unexpected error"}
)

// KindOf reports the class of err. Errors outside the taxonomy are
// KindUnexpected.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// PublicMessage returns the message that may be shown to the caller for err.
func PublicMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ErrorInternal.Message
}
