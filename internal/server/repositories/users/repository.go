// Package users stores accounts and checks their passwords.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the user store.
//
//   - AddUser returns common.ErrUserAlreadyExists for a taken email.
//   - GetUser and DeleteAccount return common.ErrUserNotFound.
//   - ValidateUser returns common.ErrUserNotFound or
//     common.ErrIncorrectCredentials.
//
// Any other error is a backend failure.
type Repository interface {
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, email models.Email) (*models.User, error)
	ValidateUser(ctx context.Context, email models.Email, password models.Password) error
	DeleteAccount(ctx context.Context, email models.Email) error
}

// PasswordHasher produces and checks the stored password representation.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, encoded string) (bool, error)
}
