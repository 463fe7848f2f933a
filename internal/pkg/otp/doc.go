// Package otp provides helpers for generating and validating one-time
// passwords (OTP), focused on TOTP (RFC 6238, time-based OTP).
//
// A secret is generated once per account. Codes are derived from the secret
// and the current time window and are delivered out of band; Validate accepts
// the current window and a configurable number of preceding windows.
package otp
