// Package rest exposes the session operations over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/captcha"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the subset of services.AuthService used by the handlers.
type AuthService interface {
	Signup(ctx context.Context, email, password string, requires2FA bool) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Verify2FA(ctx context.Context, email, loginAttemptID, code string) (*auth.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	DeleteAccount(ctx context.Context, email string) error
}

// CookieOptions controls the attributes of the token cookies.
type CookieOptions struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type HTTPServer struct {
	address string
	auth    AuthService
	captcha captcha.Verifier
	cookies CookieOptions
	logger  logging.Logger
	engine  *gin.Engine
}

// NewHTTPServer builds the router. The captcha route is only mounted when
// verifier is not nil.
func NewHTTPServer(a string, l logging.Logger, svc AuthService, verifier captcha.Verifier, cookies CookieOptions) *HTTPServer {
	s := &HTTPServer{
		address: a,
		auth:    svc,
		captcha: verifier,
		cookies: cookies,
		logger:  l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recoveryMiddleware(), s.loggingMiddleware())

	r.GET("/health", s.health)
	r.POST("/signup", s.signup)
	r.POST("/login", s.login)
	r.POST("/verify-2fa", s.verify2FA)
	r.POST("/logout", s.logout)
	r.POST("/refresh-token", s.refreshToken)
	r.DELETE("/delete-account", s.deleteAccount)

	if s.captcha != nil {
		r.POST("/verify-captcha", s.verifyCaptcha)
	}

	return r
}

// Handler returns the router, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
