package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"Username":    "username",
		"OTPCode":     "otp_code",
		"AccessToken": "access_token",
		"userID":      "user_id",
		"HTTPServer":  "http_server",
		"Email2Fa":    "email2_fa",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
