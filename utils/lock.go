package utils

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/fincontrol/finance_backend/config"
)

var ErrLockNotObtained = errors.New("lock is held by another process")

// RunLocked runs fn while holding the redis lock named key.
// Without a redis connection fn runs unguarded and a warning is logged.
func RunLocked(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithField("lock", key).Warn("redis lock not ready; proceeding without redis lock")
		return fn(ctx)
	}
	lock, err := locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLockNotObtained
	} else if err != nil {
		config.LogError(logger, "utils", "RunLocked", "obtain lock", key, err)
		return err
	}
	defer func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			config.LogError(logger, "utils", "RunLocked", "release lock", key, releaseErr)
		}
	}()
	return fn(ctx)
}
