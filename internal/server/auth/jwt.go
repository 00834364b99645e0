// Package auth issues and validates the HS256-signed access and refresh
// tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carry the subject email, expiry, a unique token id and the token
// type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// TokenPair is the result of a successful login, second-factor check or
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// GenerateToken signs a token of tokenType for subject that expires after
// validityDuration.
func GenerateToken(subject, tokenType string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generateToken(subject, tokenType, secretKey, time.Now().Add(validityDuration))
}

func generateToken(subject, tokenType string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString.
// It returns common.ErrTokenExpired for an expired token and
// common.ErrInvalidToken for anything else.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// TokenManager binds the signing secret and the two token lifetimes.
type TokenManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secretKey string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secretKey == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if accessTTL <= 0 || refreshTTL <= accessTTL {
		return nil, fmt.Errorf("token lifetimes must satisfy 0 < access (%s) < refresh (%s)", accessTTL, refreshTTL)
	}
	return &TokenManager{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// GenerateTokenPair mints a fresh access and refresh token for email.
func (m *TokenManager) GenerateTokenPair(email models.Email) (*TokenPair, error) {
	now := m.now()

	access, err := generateToken(email.Expose(), TokenTypeAccess, m.secretKey, now.Add(m.accessTTL))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := generateToken(email.Expose(), TokenTypeRefresh, m.secretKey, now.Add(m.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken parses token and checks its signature and expiry. The token
// type is not checked.
func (m *TokenManager) ValidateToken(token string) (*Claims, error) {
	return ParseToken(token, m.secretKey)
}
