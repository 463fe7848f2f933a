package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// GenerateSecret creates a new base32 shared secret for an account name.
	GenerateSecret(accountName string) (string, error)
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// Lifetime is how long after its window opens a code is still accepted.
	Lifetime() time.Duration
}

// Config tunes a TOTP instance.
type Config struct {
	Issuer string
	// Period is the window length in seconds. 0 means 30.
	Period uint
	// Skew is how many windows before the current one are still accepted.
	Skew uint
	// Digits is 6 or 8; anything else means 6.
	Digits uint
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
}

// NewTOTP constructs a TOTP instance, filling zero values with defaults.
func NewTOTP(cfg Config) *TOTP {
	digits := otp.Digits(cfg.Digits)
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	period := cfg.Period
	if period == 0 {
		period = 30
	}

	return &TOTP{
		issuer: cfg.Issuer,
		period: period,
		skew:   cfg.Skew,
		digits: digits,
	}
}

// Period returns the window length.
func (o *TOTP) Period() time.Duration {
	return time.Duration(o.period) * time.Second
}

// Skew returns how many preceding windows Validate accepts.
func (o *TOTP) Skew() uint {
	return o.skew
}

// Lifetime returns (Skew+1) * Period.
func (o *TOTP) Lifetime() time.Duration {
	return time.Duration(o.skew+1) * o.Period()
}

// GenerateSecret creates a 160-bit base32 secret for an account name.
func (o *TOTP) GenerateSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.period,
		SecretSize:  20, // RFC 4226/6238 recommendation
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// GenerateCode creates a zero-padded TOTP code for the window containing at.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts())
}

// Validate reports whether code matches the window containing at or one of
// the Skew windows before it. Future windows are never accepted.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	if !o.wellFormed(code) || secret == "" {
		return false
	}

	step := o.Period()
	for i := uint(0); i <= o.skew; i++ {
		ok, err := totp.ValidateCustom(code, secret, at.Add(-time.Duration(i)*step), o.opts())
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}

	return false
}

func (o *TOTP) opts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    o.period,
		Skew:      0,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (o *TOTP) wellFormed(code string) bool {
	if len(code) != o.digits.Length() {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}

	return true
}
