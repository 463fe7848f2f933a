package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
)

type fakeMail struct {
	fails int
	err   error
	sent  []mail.Message
	calls int
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.calls++
	if f.calls <= f.fails {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMail) Close() error { return nil }

func TestMail_SendOTP(t *testing.T) {
	boom := errors.New("421 service not available")

	tests := []struct {
		name        string
		maxAttempts int
		fails       int
		wantCalls   int
		wantErr     error
	}{
		{name: "first attempt", maxAttempts: 3, fails: 0, wantCalls: 1},
		{name: "recovers on retry", maxAttempts: 3, fails: 2, wantCalls: 3},
		{name: "gives up after max attempts", maxAttempts: 2, fails: 5, wantCalls: 2, wantErr: boom},
		{name: "single attempt by default", maxAttempts: 0, fails: 1, wantCalls: 1, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeMail{fails: tt.fails, err: boom}
			m := New(client, instrument.NewNoop(), tt.maxAttempts)
			m.backoff = time.Millisecond

			err := m.SendOTP(context.Background(), "alice@example.com", "Your OTP Code", "Your OTP code is: 123456")

			assert.Equal(t, tt.wantCalls, client.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, client.sent, 1)
			assert.Equal(t, mail.Message{
				To:       []string{"alice@example.com"},
				Subject:  "Your OTP Code",
				TextBody: "Your OTP code is: 123456",
			}, client.sent[0])
		})
	}
}
