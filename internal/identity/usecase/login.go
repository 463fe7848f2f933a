package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	// OTP is only set when modules.identity.expose_otp_in_response is on.
	OTP string
}

func errInvalidCredentials() error {
	return goerror.NewBusiness("Incorrect username or password", goerror.CodeUnauthorized)
}

// Login checks the password and emails the code for the current window.
// Unknown users, inactive users and wrong passwords are indistinguishable.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	// Blank credentials are just wrong credentials.
	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "login with blank credentials", "error", err)
		return nil, errInvalidCredentials()
	}

	user, err := s.repoDB.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "username", in.Username)
		return nil, errInvalidCredentials()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !user.Active {
		slog.WarnContext(ctx, "user account is inactive", "user_id", user.ID)
		return nil, errInvalidCredentials()
	}

	if !s.bcrypt.Verify(user.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", user.ID)
		return nil, errInvalidCredentials()
	}

	code, err := s.totp.GenerateCode(user.OTPSecret, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoNotifier.SendOTP(ctx, user.Email, otpMailSubject, otpMailBody+code); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "user_id", user.ID, "error", err)
		return nil, goerror.NewBusinessWrap(err, "Failed to send OTP", goerror.CodeUnavailable)
	}

	out := &LoginOutput{}
	if s.cfg.GetBool("modules.identity.expose_otp_in_response") {
		out.OTP = code
	}

	return out, nil
}
