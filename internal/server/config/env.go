package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

const envPrefix = "GOPHAUTH_"

// parseEnv overlays GOPHAUTH_* environment variables onto config. Durations
// use Go syntax ("10m"). A malformed number, boolean or duration panics.
func parseEnv(config *Config) {
	textVars := map[string]*string{
		"HTTP_ADDR":             &config.EndpointAddrHTTP,
		"GRPC_ADDR":             &config.EndpointAddrGRPC,
		"USER_STORE":            &config.UserStore,
		"TOKEN_STORE":           &config.TokenStore,
		"DATABASE_DSN":          &config.DatabaseDSN,
		"REDIS_ADDR":            &config.RedisAddr,
		"JWT_SECRET":            &config.SecretKey,
		"COOKIE_DOMAIN":         &config.CookieDomain,
		"EMAIL_BACKEND":         &config.EmailBackend,
		"SES_REGION":            &config.SESRegion,
		"SES_FROM_EMAIL":        &config.SESFromEmail,
		"SES_ACCESS_KEY_ID":     &config.SESAccessKeyID,
		"SES_SECRET_ACCESS_KEY": &config.SESSecretAccessKey,
		"CAPTCHA_SECRET":        &config.CaptchaSecretKey,
		"LOG_FORMAT":            &config.LogFormat,
	}
	for name, dst := range textVars {
		if v, ok := flagx.LookupEnv(envPrefix, name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_TTL": &config.RefreshTokenValidityDuration,
	}
	for name, dst := range durations {
		if v, ok := flagx.LookupEnv(envPrefix, name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
			}
			*dst = d
		}
	}

	if v, ok := flagx.LookupEnv(envPrefix, "HASH_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%sHASH_WORKERS: %w", envPrefix, err))
		}
		config.PasswordHashWorkers = n
	}

	if v, ok := flagx.LookupEnv(envPrefix, "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sCOOKIE_SECURE: %w", envPrefix, err))
		}
		config.CookieSecure = b
	}
}
