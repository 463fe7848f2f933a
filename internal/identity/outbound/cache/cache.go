// Package cache keeps short-lived identity state in Redis.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
)

const keyPrefix = "otpgate:otp:consumed:"

type setNXer interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// Replay remembers which (username, code) pairs were already exchanged for a token.
type Replay struct {
	client setNXer
	hmac   hash.Hash
	ins    instrument.Instrumentation
}

func NewReplay(client setNXer, hmac hash.Hash, ins instrument.Instrumentation) *Replay {
	return &Replay{client: client, hmac: hmac, ins: ins}
}

// MarkConsumed records the pair for ttl. It reports false when the pair was
// already recorded. Codes never reach Redis in the clear.
func (r *Replay) MarkConsumed(ctx context.Context, username, code string, ttl time.Duration) (_ bool, err error) {
	ctx, span := r.ins.Tracer("identity.outbound.cache").Start(ctx, "MarkConsumed")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	digest, err := r.hmac.Hash(username + ":" + code)
	if err != nil {
		return false, err
	}

	return r.client.SetNX(ctx, keyPrefix+string(digest), 1, ttl).Result()
}
