// Package server wires the configured stores, collaborators and transports
// into the auth application and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/captcha"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/email"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	authService *services.AuthService
	captcha     captcha.Verifier
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	hasher, err := password.NewHasher(password.DefaultParams(), c.PasswordHashWorkers)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	rm, err := repomanager.New(ctx, c, hasher)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	tokens, err := auth.NewTokenManager(c.SecretKey, c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("token manager init error: %w", err), rm.Close())
	}

	emailClient, err := newEmailClient(ctx, c, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("email client init error: %w", err), rm.Close())
	}

	app := &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		authService: services.NewAuthService(rm, tokens, emailClient, logger),
	}

	if c.CaptchaSecretKey != "" {
		app.captcha = captcha.NewRecaptchaVerifier(c.CaptchaSecretKey)
	}

	return app, nil
}

func newEmailClient(ctx context.Context, c *config.Config, l logging.Logger) (email.Client, error) {
	if c.EmailBackend == config.EmailSES {
		return email.NewSESClient(ctx, email.SESOptions{
			Region:          c.SESRegion,
			From:            c.SESFromEmail,
			AccessKeyID:     c.SESAccessKeyID,
			SecretAccessKey: c.SESSecretAccessKey,
		}, l)
	}
	return email.NewMockClient(l), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.captcha, rest.CookieOptions{
		Domain:     app.config.CookieDomain,
		Secure:     app.config.CookieSecure,
		AccessTTL:  app.config.AccessTokenValidityDuration,
		RefreshTTL: app.config.RefreshTokenValidityDuration,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until ctx is cancelled, a shutdown signal
// arrives or one of the servers fails, then releases the stores.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage failed", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
