// internal/submission/gate.go
package submission

import (
	"context"
	"time"

	apperrors "inverter-savings/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const (
	gateKeyPrefix  = "lead:submit:inflight:"
	DefaultGateTTL = 2 * time.Minute
)

// Gate allows one in-flight submission per form session.
type Gate struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewGate(rdb *redis.Client, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultGateTTL
	}
	return &Gate{redis: rdb, ttl: ttl}
}

// Acquire claims sessionID for leadID. It fails with SUBMISSION_IN_PROGRESS
// when another lead holds the session. Re-acquiring with the same leadID
// succeeds, so a retried job gets through.
func (g *Gate) Acquire(ctx context.Context, sessionID, leadID string) error {
	key := gateKeyPrefix + sessionID
	ok, err := g.redis.SetNX(ctx, key, leadID, g.ttl).Result()
	if err != nil {
		return apperrors.NewGateUnavailableError(err)
	}
	if ok {
		return nil
	}

	holder, err := g.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		// expired between SETNX and GET
		return g.Acquire(ctx, sessionID, leadID)
	}
	if err != nil {
		return apperrors.NewGateUnavailableError(err)
	}
	if leadID != "" && holder == leadID {
		return g.redis.Expire(ctx, key, g.ttl).Err()
	}
	return apperrors.NewSubmissionInProgressError(sessionID)
}

// Release frees the session.
func (g *Gate) Release(ctx context.Context, sessionID string) error {
	if err := g.redis.Del(ctx, gateKeyPrefix+sessionID).Err(); err != nil {
		return apperrors.NewGateUnavailableError(err)
	}
	return nil
}

// Holder returns the lead id currently holding sessionID, or "".
func (g *Gate) Holder(ctx context.Context, sessionID string) (string, error) {
	v, err := g.redis.Get(ctx, gateKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewGateUnavailableError(err)
	}
	return v, nil
}
