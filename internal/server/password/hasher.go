package password

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// Hasher runs argon2id on at most `workers` goroutines at a time. Callers
// blocked waiting for a slot or for a running hash return when their
// context is done.
type Hasher struct {
	params Params
	sem    *semaphore.Weighted
}

func NewHasher(params Params, workers int) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("hasher needs at least one worker")
	}
	return &Hasher{params: params, sem: semaphore.NewWeighted(int64(workers))}, nil
}

// Hash returns the PHC encoding of plain with a fresh random salt.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	var (
		encoded string
		err     error
	)
	if runErr := h.run(ctx, func() { encoded, err = hash(plain, h.params) }); runErr != nil {
		return "", runErr
	}
	return encoded, err
}

// Verify reports whether plain matches encoded. A malformed encoding is an
// error, a mismatch is not.
func (h *Hasher) Verify(ctx context.Context, plain, encoded string) (bool, error) {
	var (
		ok  bool
		err error
	)
	if runErr := h.run(ctx, func() { ok, err = verify(plain, encoded) }); runErr != nil {
		return false, runErr
	}
	return ok, err
}

func (h *Hasher) run(ctx context.Context, fn func()) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer h.sem.Release(1)
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
