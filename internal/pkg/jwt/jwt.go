package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest accepted HS256 signing key, in bytes.
const MinSecretLength = 32

var (
	// ErrSigningKeyTooShort is returned when the signing key is shorter than MinSecretLength.
	ErrSigningKeyTooShort = errors.New("HS256 signing key must be at least 32 bytes (256 bits)")

	// ErrMalformed is returned when the token cannot be decoded or its claims are invalid.
	ErrMalformed = errors.New("malformed token")

	// ErrBadSignature is returned when the HMAC over header.payload does not match.
	ErrBadSignature = errors.New("token signature mismatch")

	// ErrExpired is returned when the current time is at or after the token expiry.
	ErrExpired = errors.New("token has expired")
)

// JWT defines the minimal operations needed by the app: generate and verify a token.
type JWT interface {
	// Generate creates a signed token for subject. A non-positive ttl uses the configured default.
	Generate(subject string, ttl time.Duration) (string, error)
	// Verify checks the signature and expiry of the token and returns its claims.
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type tokenContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is written to iss and, when set, required on verify.
	Issuer string
	// TTL is the default token lifetime.
	TTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims is the verified content of a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// GetToken returns the raw bearer token stored in the context, if any.
func GetToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenContextKey{}).(string)
	return tok
}

// SetToken stores a raw bearer token in the context.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}
