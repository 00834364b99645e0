package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-u string   user store: memory, postgres, sqlite
//	-k string   token store: memory, redis
//	-d string   database DSN
//	-r string   redis address
//	-s string   JWT HMAC secret key
//	-o string   cookie domain
//	-S          mark token cookies Secure (-S=false to clear)
//	-t int      access token validity, minutes
//	-f int      refresh token validity, minutes
//	-w int      password hash workers
//	-e string   email backend: mock, ses
//	-i string   SES access key id
//	-j string   SES secret access key
//	-l string   log format: slog, zap
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-u", "-k", "-d", "-r", "-s", "-o", "-t", "-f", "-w", "-e", "-l", "-S", "-i", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.UserStore, "u", config.UserStore, "user store backend")
	fs.StringVar(&config.TokenStore, "k", config.TokenStore, "token store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.CookieDomain, "o", config.CookieDomain, "cookie domain")
	fs.BoolVar(&config.CookieSecure, "S", config.CookieSecure, "secure cookies")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("f", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.IntVar(&config.PasswordHashWorkers, "w", config.PasswordHashWorkers, "password hash workers")
	fs.StringVar(&config.EmailBackend, "e", config.EmailBackend, "email backend")
	fs.StringVar(&config.SESAccessKeyID, "i", config.SESAccessKeyID, "SES access key id")
	fs.StringVar(&config.SESSecretAccessKey, "j", config.SESSecretAccessKey, "SES secret access key")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
