package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// Placeholder styles of the supported drivers.
const (
	PlaceholderDollar   = "dollar"   // PostgreSQL: $1, $2
	PlaceholderQuestion = "question" // SQLite: ?
)

// SQLRepository stores users in the users table. It works with any DBTX;
// queries are written with ? and rebound for PostgreSQL.
type SQLRepository struct {
	db          dbx.DBTX
	hasher      PasswordHasher
	placeholder string
	dummy       dummyHash
}

func NewSQLRepository(db dbx.DBTX, hasher PasswordHasher, placeholder string) *SQLRepository {
	return &SQLRepository{db: db, hasher: hasher, placeholder: placeholder}
}

// NewPostgresRepository is NewSQLRepository for the pgx driver.
func NewPostgresRepository(db dbx.DBTX, hasher PasswordHasher) *SQLRepository {
	return NewSQLRepository(db, hasher, PlaceholderDollar)
}

// NewSQLiteRepository is NewSQLRepository for the modernc sqlite driver.
func NewSQLiteRepository(db dbx.DBTX, hasher PasswordHasher) *SQLRepository {
	return NewSQLRepository(db, hasher, PlaceholderQuestion)
}

func (r *SQLRepository) AddUser(ctx context.Context, user models.User) error {
	hash, err := r.hasher.Hash(ctx, user.Password.Expose())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	query := r.rebind(
		`INSERT INTO users (email, password_hash, requires_2fa)
		 VALUES (?, ?, ?)
		 `)

	_, err = r.db.ExecContext(ctx, query, user.Email.Expose(), hash, user.Requires2FA)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) GetUser(ctx context.Context, email models.Email) (*models.User, error) {
	query := r.rebind(
		`SELECT requires_2fa FROM users
		 WHERE email = ?
		 `)

	user := &models.User{Email: email}
	err := r.db.QueryRowContext(ctx, query, email.Expose()).Scan(&user.Requires2FA)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) ValidateUser(ctx context.Context, email models.Email, password models.Password) error {
	query := r.rebind(
		`SELECT password_hash FROM users
		 WHERE email = ?
		 `)

	var hash string
	err := r.db.QueryRowContext(ctx, query, email.Expose()).Scan(&hash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.dummy.verify(ctx, r.hasher, password.Expose())
			return common.ErrUserNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	match, err := r.hasher.Verify(ctx, password.Expose(), hash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return common.ErrIncorrectCredentials
	}

	return nil
}

func (r *SQLRepository) DeleteAccount(ctx context.Context, email models.Email) error {
	query := r.rebind(
		`DELETE FROM users
		 WHERE email = ?
		 `)

	res, err := r.db.ExecContext(ctx, query, email.Expose())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrUserNotFound
	}

	return nil
}

func (r *SQLRepository) rebind(query string) string {
	if r.placeholder != PlaceholderDollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}
