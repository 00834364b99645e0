// Package bannedtokens records revoked tokens.
package bannedtokens

import "context"

// Repository is the revocation store. Presence of a token means it is
// revoked. StoreToken returns common.ErrTokenAlreadyBanned when the token is
// already present, so of several concurrent callers exactly one succeeds.
type Repository interface {
	StoreToken(ctx context.Context, token string) error
	IsBanned(ctx context.Context, token string) (bool, error)
}
