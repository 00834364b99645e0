package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// timex.Duration so both "10m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	UserStore                    string         `json:"user_store"`
	TokenStore                   string         `json:"token_store"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	SecretKey                    string         `json:"secret_key"`
	CookieDomain                 string         `json:"cookie_domain"`
	CookieSecure                 *bool          `json:"cookie_secure"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	PasswordHashWorkers          int            `json:"password_hash_workers"`
	EmailBackend                 string         `json:"email_backend"`
	SESRegion                    string         `json:"ses_region"`
	SESFromEmail                 string         `json:"ses_from_email"`
	SESAccessKeyID               string         `json:"ses_access_key_id"`
	SESSecretAccessKey           string         `json:"ses_secret_access_key"`
	CaptchaSecretKey             string         `json:"captcha_secret_key"`
	LogFormat                    string         `json:"log_format"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Fields absent from the file keep their current value. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.UserStore, c.UserStore)
	setString(&config.TokenStore, c.TokenStore)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CookieDomain, c.CookieDomain)
	setString(&config.EmailBackend, c.EmailBackend)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESFromEmail, c.SESFromEmail)
	setString(&config.SESAccessKeyID, c.SESAccessKeyID)
	setString(&config.SESSecretAccessKey, c.SESSecretAccessKey)
	setString(&config.CaptchaSecretKey, c.CaptchaSecretKey)
	setString(&config.LogFormat, c.LogFormat)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordHashWorkers != 0 {
		config.PasswordHashWorkers = c.PasswordHashWorkers
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
