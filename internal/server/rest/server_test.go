package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/email"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeVerifier struct {
	ok  bool
	err error
}

func (f fakeVerifier) Verify(context.Context, string, string) (bool, error) { return f.ok, f.err }

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	srv  *HTTPServer
	mail *email.MockClient
}

func newTestServer(t *testing.T, verifier *fakeVerifier) *testServer {
	t.Helper()
	return newTestServerWithCookies(t, verifier, CookieOptions{Domain: "localhost", AccessTTL: 10 * time.Minute, RefreshTTL: time.Hour})
}

func newTestServerWithCookies(t *testing.T, verifier *fakeVerifier, opts CookieOptions) *testServer {
	t.Helper()

	hasher, err := password.NewHasher(password.DefaultParams(), 4)
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("test-secret", 10*time.Minute, time.Hour)
	require.NoError(t, err)

	mail := email.NewMockClient(nopLogger{})
	svc := services.NewAuthService(repomanager.NewInMemoryRepositoryManager(hasher), tokens, mail, nopLogger{})

	var srv *HTTPServer
	if verifier != nil {
		srv = NewHTTPServer("127.0.0.1:0", nopLogger{}, svc, verifier, opts)
	} else {
		srv = NewHTTPServer("127.0.0.1:0", nopLogger{}, svc, nil, opts)
	}
	return &testServer{srv: srv, mail: mail}
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, r)
	return w
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t, nil)
	var seen string
	ts.srv.engine.GET("/echo-id", func(c *gin.Context) {
		seen = logging.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/echo-id", nil)
	r.Header.Set(requestIDHeader, "client-id")
	w := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(w, r)

	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", w.Header().Get(requestIDHeader))
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr string
	}{
		{"created", `{"email":"a@example.com","password":"password123","requires2FA":false}`, http.StatusCreated, ""},
		{"invalid email", `{"email":"nope","password":"password123","requires2FA":false}`, http.StatusBadRequest, "Invalid credentials"},
		{"short password", `{"email":"a@example.com","password":"short","requires2FA":false}`, http.StatusBadRequest, "Invalid credentials"},
		{"malformed json", `{"email":`, http.StatusUnprocessableEntity, "Malformed request body"},
		{"wrong type", `{"email":"a@example.com","password":"password123","requires2FA":"yes"}`, http.StatusUnprocessableEntity, "Malformed request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			w := ts.do(t, http.MethodPost, "/signup", tt.body)
			assert.Equal(t, tt.want, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorBody(t, w))
			}
		})
	}
}

func TestSignup_Conflict(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"email":"a@example.com","password":"password123","requires2FA":false}`

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/signup", body).Code)

	w := ts.do(t, http.MethodPost, "/signup", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", errorBody(t, w))
}

func TestLogin_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/signup",
		`{"email":"a@example.com","password":"password123","requires2FA":false}`).Code)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad shape", `{"email":"a","password":"password123"}`, http.StatusBadRequest},
		{"wrong password", `{"email":"a@example.com","password":"password999"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"b@example.com","password":"password123"}`, http.StatusUnauthorized},
		{"malformed", `[]`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.want, w.Code)
			assert.Nil(t, cookieByName(w, common.AccessTokenCookieName))
		})
	}
}

func TestLogoutAndRefresh_MissingCookies(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing token", errorBody(t, w))

	w = ts.do(t, http.MethodPost, "/refresh-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/logout", "", &http.Cookie{Name: common.AccessTokenCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", errorBody(t, w))
}

// Signup without 2FA, login, logout, then the same token is rejected.
func TestFlow_PlainLoginLogout(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/signup", `{"email":"plain@example.com","password":"password123","requires2FA":false}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/login", `{"email":"plain@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	access := cookieByName(w, common.AccessTokenCookieName)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, "localhost", access.Domain)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.False(t, access.Secure)
	assert.NotEmpty(t, access.Value)
	require.NotNil(t, cookieByName(w, common.RefreshTokenCookieName))

	w = ts.do(t, http.MethodPost, "/logout", "", access)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieByName(w, common.AccessTokenCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	w = ts.do(t, http.MethodPost, "/logout", "", access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCookies_Secure(t *testing.T) {
	ts := newTestServerWithCookies(t, nil, CookieOptions{
		Domain:     "auth.example.com",
		Secure:     true,
		AccessTTL:  10 * time.Minute,
		RefreshTTL: time.Hour,
	})

	w := ts.do(t, http.MethodPost, "/signup", `{"email":"secure@example.com","password":"password123","requires2FA":false}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/login", `{"email":"secure@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, name := range []string{common.AccessTokenCookieName, common.RefreshTokenCookieName} {
		c := cookieByName(w, name)
		require.NotNil(t, c, name)
		assert.True(t, c.Secure, name)
		assert.Equal(t, "auth.example.com", c.Domain, name)
	}

	w = ts.do(t, http.MethodPost, "/logout", "", cookieByName(w, common.AccessTokenCookieName))
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieByName(w, common.AccessTokenCookieName)
	require.NotNil(t, cleared)
	assert.True(t, cleared.Secure)
}

// Signup with 2FA, login returns 206, the emailed code finishes the login,
// and the code cannot be replayed.
func TestFlow_TwoFactor(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/signup", `{"email":"mfa@example.com","password":"password123","requires2FA":true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/login", `{"email":"mfa@example.com","password":"password123"}`)
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Nil(t, cookieByName(w, common.AccessTokenCookieName))

	var challenge twoFactorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &challenge))
	assert.Equal(t, "2FA required", challenge.Message)
	require.NotEmpty(t, challenge.LoginAttemptID)

	msg, ok := ts.mail.Last()
	require.True(t, ok)
	code := msg.Content[strings.LastIndex(msg.Content, " ")+1:]

	body, err := json.Marshal(verify2FARequest{Email: "mfa@example.com", LoginAttemptID: challenge.LoginAttemptID, TwoFACode: code})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"2FACode"`)

	w = ts.do(t, http.MethodPost, "/verify-2fa", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, cookieByName(w, common.AccessTokenCookieName))
	require.NotNil(t, cookieByName(w, common.RefreshTokenCookieName))

	w = ts.do(t, http.MethodPost, "/verify-2fa", string(body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect credentials", errorBody(t, w))
}

func TestVerify2FA_BadInput(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad id", `{"email":"a@example.com","loginAttemptId":"x","2FACode":"123456"}`, "Login attempt id is malformed"},
		{"bad code", `{"email":"a@example.com","loginAttemptId":"8c1a4f5e-3b8b-4c3e-9f57-2f1f3c6c9a10","2FACode":"12345"}`, "2FA code is malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/verify-2fa", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorBody(t, w))
		})
	}
}

func TestRefreshToken(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/signup",
		`{"email":"a@example.com","password":"password123","requires2FA":false}`).Code)

	w := ts.do(t, http.MethodPost, "/login", `{"email":"a@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	access := cookieByName(w, common.AccessTokenCookieName)
	refresh := cookieByName(w, common.RefreshTokenCookieName)

	// an access token presented as a refresh token
	w = ts.do(t, http.MethodPost, "/refresh-token", "", &http.Cookie{Name: common.RefreshTokenCookieName, Value: access.Value})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/refresh-token", "", refresh)
	require.Equal(t, http.StatusOK, w.Code)

	var body refreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Tokens refreshed successfully", body.Message)
	assert.Equal(t, body.AccessToken, cookieByName(w, common.AccessTokenCookieName).Value)
	assert.Equal(t, body.RefreshToken, cookieByName(w, common.RefreshTokenCookieName).Value)
}

func TestDeleteAccount(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/signup",
		`{"email":"a@example.com","password":"password123","requires2FA":false}`).Code)

	w := ts.do(t, http.MethodDelete, "/delete-account", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/delete-account", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Unexpected error", errorBody(t, w))

	w = ts.do(t, http.MethodDelete, "/delete-account", `{"email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyCaptcha(t *testing.T) {
	t.Run("route disabled without verifier", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(t, http.MethodPost, "/verify-captcha", `{"token":"t"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	tests := []struct {
		name     string
		verifier fakeVerifier
		body     string
		want     int
		success  bool
	}{
		{"passes", fakeVerifier{ok: true}, `{"token":"t"}`, http.StatusOK, true},
		{"rejected", fakeVerifier{ok: false}, `{"token":"t"}`, http.StatusOK, false},
		{"missing token", fakeVerifier{ok: true}, `{}`, http.StatusBadRequest, false},
		{"upstream failure", fakeVerifier{err: errors.New("timeout")}, `{"token":"t"}`, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.verifier
			ts := newTestServer(t, &v)
			w := ts.do(t, http.MethodPost, "/verify-captcha", tt.body)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				var body captchaResponse
				require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body))
				assert.Equal(t, tt.success, body.Success)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(common.KindInvalidInput))
	assert.Equal(t, http.StatusBadRequest, statusFor(common.KindMissingToken))
	assert.Equal(t, http.StatusConflict, statusFor(common.KindAlreadyExists))
	assert.Equal(t, http.StatusUnauthorized, statusFor(common.KindIncorrectCredentials))
	assert.Equal(t, http.StatusUnauthorized, statusFor(common.KindTokenInvalid))
	assert.Equal(t, http.StatusInternalServerError, statusFor(common.KindUnexpected))
}

func TestRecovery(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.srv.engine.GET("/panic", func(*gin.Context) { panic("boom") })

	w := ts.do(t, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ts := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.srv.address = "127.0.0.1:99999"

	err := ts.srv.Run(context.Background())
	assert.Error(t, err)
}
