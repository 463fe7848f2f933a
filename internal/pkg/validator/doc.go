// Package validator provides a small validation abstraction for use case
// input structs.
//
// Business code depends on the Validator interface; V10Validator is the
// go-playground/validator implementation with English messages and the
// project's custom tags (username).
package validator
