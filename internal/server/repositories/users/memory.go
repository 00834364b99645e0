package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type memoryRecord struct {
	passwordHash string
	requires2FA  bool
}

// MemoryRepository keeps users in a map. Passwords are hashed before they
// are stored.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[models.Email]memoryRecord
	hasher PasswordHasher
	dummy  dummyHash
}

func NewMemoryRepository(hasher PasswordHasher) *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[models.Email]memoryRecord),
		hasher: hasher,
	}
}

func (r *MemoryRepository) AddUser(ctx context.Context, user models.User) error {
	hash, err := r.hasher.Hash(ctx, user.Password.Expose())
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return common.ErrUserAlreadyExists
	}
	r.users[user.Email] = memoryRecord{passwordHash: hash, requires2FA: user.Requires2FA}

	return nil
}

func (r *MemoryRepository) GetUser(_ context.Context, email models.Email) (*models.User, error) {
	r.mu.RLock()
	rec, ok := r.users[email]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrUserNotFound
	}
	return &models.User{Email: email, Requires2FA: rec.requires2FA}, nil
}

func (r *MemoryRepository) ValidateUser(ctx context.Context, email models.Email, password models.Password) error {
	r.mu.RLock()
	rec, ok := r.users[email]
	r.mu.RUnlock()

	if !ok {
		r.dummy.verify(ctx, r.hasher, password.Expose())
		return common.ErrUserNotFound
	}

	match, err := r.hasher.Verify(ctx, password.Expose(), rec.passwordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return common.ErrIncorrectCredentials
	}
	return nil
}

func (r *MemoryRepository) DeleteAccount(_ context.Context, email models.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[email]; !ok {
		return common.ErrUserNotFound
	}
	delete(r.users, email)
	return nil
}
