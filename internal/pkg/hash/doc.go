// Package hash provides helpers for hashing and verifying secrets.
//
// Passwords are stored only as a bcrypt digest and checked with
// Verify. HMACSHA256 produces deterministic fingerprints for values that must
// be looked up by key (for example OTP replay markers) without storing them.
package hash
