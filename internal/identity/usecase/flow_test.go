package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_EndToEnd(t *testing.T) {
	env := newTestEnv(t, defaultConfig)
	ctx := context.Background()

	env.register(t, "alice", "a@x.io", "pw1")

	out, err := env.uc.Login(ctx, LoginInput{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Empty(t, out.OTP)

	require.Len(t, env.notifier.sent, 1)
	assert.Equal(t, "a@x.io", env.notifier.sent[0].To)
	assert.Equal(t, "Your OTP Code", env.notifier.sent[0].Subject)
	code := env.notifier.lastCode(t)
	assert.Len(t, code, 6)

	verified, err := env.uc.VerifyOTP(ctx, VerifyOTPInput{Username: "alice", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, "bearer", verified.TokenType)
	assert.NotEmpty(t, verified.AccessToken)

	profile, err := env.uc.Identify(ctx, IdentifyInput{Token: verified.AccessToken})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "a@x.io", profile.Email)
}
