package twofacodes

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type challenge struct {
	id   models.LoginAttemptID
	code models.TwoFACode
}

type MemoryRepository struct {
	mu    sync.RWMutex
	codes map[models.Email]challenge
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{codes: make(map[models.Email]challenge)}
}

func (r *MemoryRepository) AddCode(_ context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codes[email] = challenge{id: id, code: code}
	return nil
}

// RemoveCode is a no-op when there is no challenge.
func (r *MemoryRepository) RemoveCode(_ context.Context, email models.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.codes, email)
	return nil
}

func (r *MemoryRepository) GetCode(_ context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codes[email]
	if !ok {
		return models.LoginAttemptID{}, models.TwoFACode{}, common.ErrLoginAttemptIDNotFound
	}
	return c.id, c.code, nil
}

func (r *MemoryRepository) ConsumeCode(_ context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[email]
	if !ok {
		return common.ErrLoginAttemptIDNotFound
	}
	idMatch := c.id.Equal(id)
	codeMatch := c.code.Equal(code)
	if !idMatch || !codeMatch {
		return common.ErrLoginAttemptIDNotFound
	}

	delete(r.codes, email)
	return nil
}
