package jwt

import (
	"errors"
	"strings"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 30 * time.Minute

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clocker
	uuid   generator
	parser *libJWT.Parser
}

// NewHS256 constructs a Symmetric JWT implementation using HS256.
func NewHS256(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrSigningKeyTooShort
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
		libJWT.WithExpirationRequired(),
		libJWT.WithIssuedAt(),
		libJWT.WithTimeFunc(cfg.Clock.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(cfg.Issuer))
	}

	return &Symmetric{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    ttl,
		clock:  cfg.Clock,
		uuid:   cfg.UUID,
		parser: libJWT.NewParser(opts...),
	}, nil
}

// Generate creates a signed JWT whose sub is subject.
func (s *Symmetric) Generate(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.uuid.Generate(),
				Subject:   subject,
				Issuer:    s.issuer,
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
			},
		}).
		SignedString(s.secret)
}

// Verify checks the signature, then decodes and validates the claims.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Claims{}, ErrMalformed
	}

	sig, err := s.parser.DecodeSegment(parts[2])
	if err != nil || len(sig) == 0 {
		return Claims{}, ErrBadSignature
	}

	if err := libJWT.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return Claims{}, ErrBadSignature
	}

	var claims Claims
	token, err := s.parser.ParseWithClaims(tokenStr, &claims, func(*libJWT.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}

	if !token.Valid || claims.Subject == "" {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}
