package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
)

const defaultBackoff = 200 * time.Millisecond

type Mail struct {
	client      mail.Mail
	ins         instrument.Instrumentation
	maxAttempts uint64
	backoff     time.Duration
}

// New builds the OTP notifier. maxAttempts below 1 means a single attempt.
func New(client mail.Mail, ins instrument.Instrumentation, maxAttempts int) *Mail {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Mail{
		client:      client,
		ins:         ins,
		maxAttempts: uint64(maxAttempts),
		backoff:     defaultBackoff,
	}
}

// SendOTP delivers one plain-text message to destination. The last transport
// error is returned once every attempt has failed.
func (m *Mail) SendOTP(ctx context.Context, destination, subject, body string) error {
	ctx, span := m.ins.Tracer("identity.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	msg := mail.Message{
		To:       []string{destination},
		Subject:  subject,
		TextBody: body,
	}

	attempt := 0
	b := retry.WithMaxRetries(m.maxAttempts-1, retry.NewExponential(m.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := m.client.Send(ctx, msg); err != nil {
			slog.WarnContext(ctx, "failed to send otp email", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
