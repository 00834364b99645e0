package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/email"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/bannedtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/twofacodes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeRepoManager lets a test replace any of the stores.
type fakeRepoManager struct {
	u users.Repository
	b bannedtokens.Repository
	c twofacodes.Repository
}

func (m *fakeRepoManager) Users() users.Repository               { return m.u }
func (m *fakeRepoManager) BannedTokens() bannedtokens.Repository { return m.b }
func (m *fakeRepoManager) TwoFACodes() twofacodes.Repository     { return m.c }
func (m *fakeRepoManager) Close() error                          { return nil }

type fakeUsersRepo struct {
	users.Repository

	addErr      error
	getErr      error
	validateErr error
	deleteErr   error
}

func (f *fakeUsersRepo) AddUser(ctx context.Context, u models.User) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.Repository.AddUser(ctx, u)
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, e models.Email) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Repository.GetUser(ctx, e)
}

func (f *fakeUsersRepo) ValidateUser(ctx context.Context, e models.Email, p models.Password) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	return f.Repository.ValidateUser(ctx, e, p)
}

func (f *fakeUsersRepo) DeleteAccount(ctx context.Context, e models.Email) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.Repository.DeleteAccount(ctx, e)
}

type fakeBannedRepo struct {
	bannedtokens.Repository

	storeErr error
	checkErr error
}

func (f *fakeBannedRepo) StoreToken(ctx context.Context, token string) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	return f.Repository.StoreToken(ctx, token)
}

func (f *fakeBannedRepo) IsBanned(ctx context.Context, token string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.Repository.IsBanned(ctx, token)
}

type fakeCodesRepo struct {
	twofacodes.Repository

	addErr     error
	consumeErr error
	adds       int
}

func (f *fakeCodesRepo) AddCode(ctx context.Context, e models.Email, id models.LoginAttemptID, c models.TwoFACode) error {
	f.adds++
	if f.addErr != nil {
		return f.addErr
	}
	return f.Repository.AddCode(ctx, e, id, c)
}

func (f *fakeCodesRepo) ConsumeCode(ctx context.Context, e models.Email, id models.LoginAttemptID, c models.TwoFACode) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	return f.Repository.ConsumeCode(ctx, e, id, c)
}

type failingEmail struct{ err error }

func (f failingEmail) SendEmail(context.Context, models.Email, string, string) error { return f.err }

type env struct {
	svc    *AuthService
	tokens *auth.TokenManager
	mail   *email.MockClient
	users  *fakeUsersRepo
	banned *fakeBannedRepo
	codes  *fakeCodesRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()

	hasher, err := password.NewHasher(password.DefaultParams(), 4)
	require.NoError(t, err)
	mem := repomanager.NewInMemoryRepositoryManager(hasher)

	e := &env{
		users:  &fakeUsersRepo{Repository: mem.Users()},
		banned: &fakeBannedRepo{Repository: mem.BannedTokens()},
		codes:  &fakeCodesRepo{Repository: mem.TwoFACodes()},
		mail:   email.NewMockClient(nopLogger{}),
	}

	e.tokens, err = auth.NewTokenManager("test-secret", 10*time.Minute, time.Hour)
	require.NoError(t, err)

	rm := &fakeRepoManager{u: e.users, b: e.banned, c: e.codes}
	e.svc = NewAuthService(rm, e.tokens, e.mail, nopLogger{})
	return e
}

func (e *env) signup(t *testing.T, emailAddr string, requires2FA bool) {
	t.Helper()
	require.NoError(t, e.svc.Signup(context.Background(), emailAddr, "password123", requires2FA))
}

// lastCode extracts the code from the most recent captured email.
func (e *env) lastCode(t *testing.T) string {
	t.Helper()
	msg, ok := e.mail.Last()
	require.True(t, ok, "no email was sent")
	idx := strings.LastIndex(msg.Content, " ")
	require.GreaterOrEqual(t, idx, 0)
	return msg.Content[idx+1:]
}
