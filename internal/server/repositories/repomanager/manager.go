// Package repomanager builds the configured store backends, runs schema
// migrations and releases the underlying connections.
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/bannedtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/twofacodes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	Users() users.Repository
	BannedTokens() bannedtokens.Repository
	TwoFACodes() twofacodes.Repository
	Close() error
}

// Manager holds one instance of each store.
type Manager struct {
	users        users.Repository
	bannedTokens bannedtokens.Repository
	twoFACodes   twofacodes.Repository
	closers      []func() error
}

func (m *Manager) Users() users.Repository               { return m.users }
func (m *Manager) BannedTokens() bannedtokens.Repository { return m.bannedTokens }
func (m *Manager) TwoFACodes() twofacodes.Repository     { return m.twoFACodes }

// Close releases database and cache connections in reverse order of
// creation.
func (m *Manager) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// NewInMemoryRepositoryManager returns process-local stores.
func NewInMemoryRepositoryManager(hasher users.PasswordHasher) *Manager {
	return &Manager{
		users:        users.NewMemoryRepository(hasher),
		bannedTokens: bannedtokens.NewMemoryRepository(),
		twoFACodes:   twofacodes.NewMemoryRepository(),
	}
}

// New builds the stores selected by cfg.UserStore and cfg.TokenStore.
// Relational stores are migrated before New returns. Redis entries expire
// after the access-token lifetime.
func New(ctx context.Context, cfg *config.Config, hasher users.PasswordHasher) (*Manager, error) {
	m := &Manager{}

	if err := m.initUsers(ctx, cfg, hasher); err != nil {
		_ = m.Close()
		return nil, err
	}
	if err := m.initTokenStores(ctx, cfg); err != nil {
		_ = m.Close()
		return nil, err
	}

	return m, nil
}

func (m *Manager) initUsers(ctx context.Context, cfg *config.Config, hasher users.PasswordHasher) error {
	switch cfg.UserStore {
	case config.StoreMemory:
		m.users = users.NewMemoryRepository(hasher)
		return nil
	case config.StorePostgres:
		db, err := openDB(ctx, "pgx", cfg.DatabaseDSN, DialectPostgres)
		if err != nil {
			return err
		}
		m.closers = append(m.closers, db.Close)
		m.users = users.NewPostgresRepository(db, hasher)
		return nil
	case config.StoreSQLite:
		db, err := openDB(ctx, "sqlite", cfg.DatabaseDSN, DialectSQLite)
		if err != nil {
			return err
		}
		m.closers = append(m.closers, db.Close)
		m.users = users.NewSQLiteRepository(db, hasher)
		return nil
	default:
		return fmt.Errorf("unknown user store %q", cfg.UserStore)
	}
}

func (m *Manager) initTokenStores(ctx context.Context, cfg *config.Config) error {
	switch cfg.TokenStore {
	case config.StoreMemory:
		m.bannedTokens = bannedtokens.NewMemoryRepository()
		m.twoFACodes = twofacodes.NewMemoryRepository()
		return nil
	case config.StoreRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
		m.closers = append(m.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		m.bannedTokens = bannedtokens.NewRedisRepository(client, cfg.AccessTokenValidityDuration)
		m.twoFACodes = twofacodes.NewRedisRepository(client, cfg.AccessTokenValidityDuration)
		return nil
	default:
		return fmt.Errorf("unknown token store %q", cfg.TokenStore)
	}
}

func openDB(ctx context.Context, driver, dsn, dialect string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// goose dialect names.
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
