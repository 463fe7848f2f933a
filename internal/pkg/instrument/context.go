package instrument

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// CorrelationHeader is the request/response header that carries the correlation ID.
const CorrelationHeader = "X-Correlation-ID"

// GetCorrelationID returns the correlation ID stored in ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	cID, _ := ctx.Value(correlationIDKey{}).(string)
	return cID
}

// SetCorrelationID stores cID in ctx.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// NewCorrelationID returns a fresh random correlation ID.
func NewCorrelationID() string {
	return uuid.NewString()
}
