package bannedtokens

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// MemoryRepository is a set of revoked tokens. Storing a token twice returns
// common.ErrTokenAlreadyBanned. Entries never expire.
type MemoryRepository struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: make(map[string]struct{})}
}

func (r *MemoryRepository) StoreToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token]; ok {
		return common.ErrTokenAlreadyBanned
	}
	r.tokens[token] = struct{}{}
	return nil
}

func (r *MemoryRepository) IsBanned(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tokens[token]
	return ok, nil
}
