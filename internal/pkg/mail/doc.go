// Package mail defines the contracts for sending email messages.
//
// Use cases work with the Mail interface and Message payload; SMTP is the
// delivery mechanism implemented here. It upgrades to STARTTLS whenever the
// server advertises it and authenticates with PLAIN when credentials are set.
package mail
