// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// Cookie names carrying the access and refresh tokens.
const (
	AccessTokenCookieName  = "jwt"
	RefreshTokenCookieName = "jwt-refresh"
)

// Key prefixes used by the cache-backed stores.
const (
	BannedTokenKeyPrefix = "banned_token:"
	TwoFACodeKeyPrefix   = "two_fa_code:"
)

// AccessTokenHeaderName is the gRPC metadata key a caller may use to pass the
// token instead of the request message.
const AccessTokenHeaderName = "access_token"
