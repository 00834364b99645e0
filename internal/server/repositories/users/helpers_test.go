package users

import (
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/stretchr/testify/require"
)

func newHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher(password.DefaultParams(), 4)
	require.NoError(t, err)
	return h
}

func mustEmail(t *testing.T, raw string) models.Email {
	t.Helper()
	e, err := models.NewEmail(raw)
	require.NoError(t, err)
	return e
}

func mustPassword(t *testing.T, raw string) models.Password {
	t.Helper()
	p, err := models.NewPassword(raw)
	require.NoError(t, err)
	return p
}

func mustUser(t *testing.T, email, pass string, requires2FA bool) models.User {
	t.Helper()
	return models.NewUser(mustEmail(t, email), mustPassword(t, pass), requires2FA)
}
