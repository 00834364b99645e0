// Package email delivers one-time codes to users.
package email

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Client sends a plain-text message.
type Client interface {
	SendEmail(ctx context.Context, recipient models.Email, subject, content string) error
}
