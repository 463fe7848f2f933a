// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. TOTP windows and token expiry are both derived from
// Now, so tests pin the clock with Fixed to get deterministic codes.
package clock
