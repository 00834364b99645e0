package bannedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps each revoked token under banned_token:<token> for
// ttl, which should equal the access-token lifetime. The key is written with
// SET NX, so storing a token that is already present returns
// common.ErrTokenAlreadyBanned and leaves its ttl unchanged.
type RedisRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisRepository(client redis.UniversalClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) key(token string) string {
	return common.BannedTokenKeyPrefix + token
}

func (r *RedisRepository) StoreToken(ctx context.Context, token string) error {
	ok, err := r.client.SetNX(ctx, r.key(token), true, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if !ok {
		return common.ErrTokenAlreadyBanned
	}
	return nil
}

func (r *RedisRepository) IsBanned(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}
