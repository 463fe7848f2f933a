// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A Claims wrapper around the registered claims (sub, iss, iat, exp, jti).
//   - A symmetric HS256 implementation for generating and verifying tokens.
//   - Context helpers for carrying a bearer token through a request.
//
// Verify checks the HMAC over header.payload before any claim is decoded, so
// a token whose header or payload was altered always fails with
// ErrBadSignature, never with a claims error.
package jwt
