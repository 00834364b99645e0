package twofacodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/redis/go-redis/v9"
)

type redisRecord struct {
	LoginAttemptID string `json:"login_attempt_id"`
	Code           string `json:"code"`
}

// RedisRepository stores the challenge as JSON under two_fa_code:<email>
// for ttl.
type RedisRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisRepository(client redis.UniversalClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) key(email models.Email) string {
	return common.TwoFACodeKeyPrefix + email.Expose()
}

func (r *RedisRepository) AddCode(ctx context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error {
	data, err := json.Marshal(redisRecord{LoginAttemptID: id.String(), Code: code.String()})
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	if err := r.client.Set(ctx, r.key(email), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) RemoveCode(ctx context.Context, email models.Email) error {
	if err := r.client.Del(ctx, r.key(email)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) GetCode(ctx context.Context, email models.Email) (models.LoginAttemptID, models.TwoFACode, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.LoginAttemptID{}, models.TwoFACode{}, common.ErrLoginAttemptIDNotFound
		}
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("redis error: %w", err)
	}
	return decodeRecord(data)
}

// ConsumeCode watches the key, so a challenge replaced or removed between
// the read and the delete aborts the transaction and counts as no match.
func (r *RedisRepository) ConsumeCode(ctx context.Context, email models.Email, id models.LoginAttemptID, code models.TwoFACode) error {
	key := r.key(email)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return common.ErrLoginAttemptIDNotFound
			}
			return err
		}

		storedID, storedCode, err := decodeRecord(data)
		if err != nil {
			return err
		}
		idMatch := storedID.Equal(id)
		codeMatch := storedCode.Equal(code)
		if !idMatch || !codeMatch {
			return common.ErrLoginAttemptIDNotFound
		}

		var del *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			del = pipe.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		if del.Val() == 0 {
			return common.ErrLoginAttemptIDNotFound
		}
		return nil
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, common.ErrLoginAttemptIDNotFound):
		return common.ErrLoginAttemptIDNotFound
	case errors.Is(err, errDecodeChallenge):
		return err
	default:
		return fmt.Errorf("redis error: %w", err)
	}
}

var errDecodeChallenge = errors.New("decode challenge")

func decodeRecord(data []byte) (models.LoginAttemptID, models.TwoFACode, error) {
	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("%w: %w", errDecodeChallenge, err)
	}

	id, err := models.ParseLoginAttemptID(rec.LoginAttemptID)
	if err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("%w: %w", errDecodeChallenge, err)
	}
	code, err := models.ParseTwoFACode(rec.Code)
	if err != nil {
		return models.LoginAttemptID{}, models.TwoFACode{}, fmt.Errorf("%w: %w", errDecodeChallenge, err)
	}

	return id, code, nil
}
