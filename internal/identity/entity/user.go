package entity

import "time"

// User is the stored account record. OTPSecret is the plaintext base32 seed;
// adapters seal it before it reaches disk.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string // hashed
	OTPSecret string
	Active    bool
	CreatedAt time.Time
}

// Profile is the public view of a User.
type Profile struct {
	Username string
	Email    string
}

// Profile strips credentials from the record.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email}
}
