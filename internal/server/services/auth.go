// Package services contains the session orchestrators: signup, login with an
// optional emailed second factor, logout, token refresh and account
// deletion. Every error they return is a *common.APIError.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/email"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

const (
	TwoFAEmailSubject = "Your verification code"
	twoFAEmailBody    = "Your code is: %s"
)

// TokenIssuer mints and checks token pairs.
type TokenIssuer interface {
	GenerateTokenPair(email models.Email) (*auth.TokenPair, error)
	ValidateToken(token string) (*auth.Claims, error)
}

// LoginResult holds either a token pair or, when the account requires a
// second factor, the id of the pending login attempt.
type LoginResult struct {
	Tokens         *auth.TokenPair
	LoginAttemptID models.LoginAttemptID
}

// Requires2FA reports whether the login must be finished with Verify2FA.
func (r *LoginResult) Requires2FA() bool {
	return r.Tokens == nil
}

type AuthService struct {
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	email       email.Client
	logger      logging.Logger
}

func NewAuthService(m repomanager.RepositoryManager, tokens TokenIssuer, emailClient email.Client, l logging.Logger) *AuthService {
	return &AuthService{
		repomanager: m,
		tokens:      tokens,
		email:       emailClient,
		logger:      l.With("module", "auth_service"),
	}
}

// Signup registers a new account.
func (s *AuthService) Signup(ctx context.Context, rawEmail, rawPassword string, requires2FA bool) error {
	email, err := models.NewEmail(rawEmail)
	if err != nil {
		return common.ErrInvalidCredentials
	}
	password, err := models.NewPassword(rawPassword)
	if err != nil {
		return common.ErrInvalidCredentials
	}

	err = s.repomanager.Users().AddUser(ctx, models.NewUser(email, password, requires2FA))
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return common.ErrUserAlreadyExists
		}
		s.logger.Error(ctx, "signup failed", "email", email, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "email", email, "requires_2fa", requires2FA)
	return nil
}

// Login checks the credentials. Accounts without a second factor get a token
// pair; the others get a fresh login attempt id while a code is emailed.
// A new attempt replaces any pending one.
func (s *AuthService) Login(ctx context.Context, rawEmail, rawPassword string) (*LoginResult, error) {
	email, err := models.NewEmail(rawEmail)
	if err != nil {
		return nil, common.ErrEmailOrPasswordIncorrect
	}
	password, err := models.NewPassword(rawPassword)
	if err != nil {
		return nil, common.ErrEmailOrPasswordIncorrect
	}

	users := s.repomanager.Users()

	if err := users.ValidateUser(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrUserNotFound) || errors.Is(err, common.ErrIncorrectCredentials) {
			return nil, common.ErrIncorrectCredentials
		}
		s.logger.Error(ctx, "validate user failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	user, err := users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrIncorrectCredentials
		}
		s.logger.Error(ctx, "get user failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	if !user.Requires2FA {
		tokens, err := s.issueTokens(ctx, email)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Tokens: tokens}, nil
	}

	attemptID := models.NewLoginAttemptID()
	code, err := models.NewTwoFACode()
	if err != nil {
		s.logger.Error(ctx, "generate 2FA code failed", "error", err)
		return nil, common.ErrorInternal
	}

	// the challenge is only recorded once the code has been delivered
	if err := s.email.SendEmail(ctx, email, TwoFAEmailSubject, fmt.Sprintf(twoFAEmailBody, code)); err != nil {
		s.logger.Error(ctx, "send 2FA code failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.TwoFACodes().AddCode(ctx, email, attemptID, code); err != nil {
		s.logger.Error(ctx, "store 2FA code failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{LoginAttemptID: attemptID}, nil
}

// Verify2FA finishes a login started by Login. A challenge can be used once.
func (s *AuthService) Verify2FA(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (*auth.TokenPair, error) {
	email, err := models.NewEmail(rawEmail)
	if err != nil {
		return nil, common.ErrEmailOrPasswordIncorrect
	}
	attemptID, err := models.ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return nil, common.ErrMalformedLoginAttemptID
	}
	code, err := models.ParseTwoFACode(rawCode)
	if err != nil {
		return nil, common.ErrMalformedTwoFACode
	}

	// Only the caller whose ConsumeCode removes the challenge gets tokens.
	if err := s.repomanager.TwoFACodes().ConsumeCode(ctx, email, attemptID, code); err != nil {
		if errors.Is(err, common.ErrLoginAttemptIDNotFound) {
			return nil, common.ErrIncorrectCredentials
		}
		s.logger.Error(ctx, "consume 2FA code failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}

	return s.issueTokens(ctx, email)
}

// Logout revokes an access token.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return common.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil || claims.TokenType != auth.TokenTypeAccess {
		return common.ErrTokenNotValid
	}

	// StoreToken decides atomically which of several concurrent logouts wins.
	if err := s.repomanager.BannedTokens().StoreToken(ctx, accessToken); err != nil {
		if errors.Is(err, common.ErrTokenAlreadyBanned) {
			return common.ErrTokenNotValid
		}
		s.logger.Error(ctx, "store banned token failed", "error", err)
		return common.ErrorInternal
	}

	return nil
}

// RefreshToken exchanges a refresh token for a new pair. The old refresh
// token stays valid until it expires.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return nil, common.ErrTokenNotValid
	}

	email, err := models.NewEmail(claims.Subject)
	if err != nil {
		return nil, common.ErrTokenNotValid
	}

	return s.issueTokens(ctx, email)
}

// DeleteAccount removes the account. Deleting an unknown account is an
// internal error.
func (s *AuthService) DeleteAccount(ctx context.Context, rawEmail string) error {
	email, err := models.NewEmail(rawEmail)
	if err != nil {
		return common.ErrInvalidCredentials
	}

	if err := s.repomanager.Users().DeleteAccount(ctx, email); err != nil {
		s.logger.Error(ctx, "delete account failed", "email", email, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "account deleted", "email", email)
	return nil
}

// VerifyToken accepts a signed, unexpired, unrevoked access token and
// returns its claims.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil || claims.TokenType != auth.TokenTypeAccess {
		return nil, common.ErrTokenNotValid
	}

	isBanned, err := s.repomanager.BannedTokens().IsBanned(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "check banned token failed", "error", err)
		return nil, common.ErrorInternal
	}
	if isBanned {
		return nil, common.ErrTokenNotValid
	}

	return claims, nil
}

func (s *AuthService) issueTokens(ctx context.Context, email models.Email) (*auth.TokenPair, error) {
	tokens, err := s.tokens.GenerateTokenPair(email)
	if err != nil {
		s.logger.Error(ctx, "generate tokens failed", "email", email, "error", err)
		return nil, common.ErrorInternal
	}
	return tokens, nil
}
