// Package captcha verifies CAPTCHA tokens with Google reCAPTCHA.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

	// MinScore is the lowest reCAPTCHA v3 score accepted as human.
	MinScore = 0.5
)

// Verifier checks a client-side CAPTCHA token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

type RecaptchaVerifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:   secret,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Verify passes when reCAPTCHA reports success with a score of at least
// MinScore. A response without a score does not pass.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("siteverify status %d", resp.StatusCode)
	}

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("siteverify decode: %w", err)
	}

	if !body.Success || body.Score == nil {
		return false, nil
	}
	return *body.Score >= MinScore, nil
}
