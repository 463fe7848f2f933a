package mfa

// Purpose identifies what a sealed value is used for.
type Purpose string

// PurposeOTPSeed scopes encryption to the shared TOTP secret of a user.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope binds a ciphertext to its owner and purpose.
// It is used as AAD (Additional Authenticated Data) in AES-GCM.
type Scope struct {
	UserID  int64
	Purpose Purpose
}

// OTPSeed returns the scope for a user's TOTP secret.
func OTPSeed(userID int64) Scope {
	return Scope{UserID: userID, Purpose: PurposeOTPSeed}
}
