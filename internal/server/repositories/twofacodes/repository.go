// Package twofacodes holds the pending second-factor challenge of each user.
package twofacodes

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository keeps at most one challenge per email. AddCode replaces any
// existing one. GetCode does not consume the challenge and returns
// common.ErrLoginAttemptIDNotFound when there is none.
//
// ConsumeCode removes the challenge only if it matches id and code, as one
// atomic step. It returns common.ErrLoginAttemptIDNotFound when there is no
// matching challenge, so of several concurrent callers presenting the same
// pair exactly one gets nil.
type Repository interface {
	AddCode(ctx context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error
	RemoveCode(ctx context.Context, email models.Email) error
	GetCode(ctx context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error)
	ConsumeCode(ctx context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error
}
