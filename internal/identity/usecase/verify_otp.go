package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

type VerifyOTPInput struct {
	Username string `validate:"required"`
	OTP      string `validate:"required"`
}

type VerifyOTPOutput struct {
	AccessToken string
	TokenType   string
}

func errUserNotFound() error {
	return goerror.NewBusiness("User not found", goerror.CodeBadRequest)
}

func errInvalidOTP() error {
	return goerror.NewBusiness("Invalid OTP", goerror.CodeBadRequest)
}

// VerifyOTP exchanges a code for an access token. A malformed code is judged
// by the OTP engine like any other wrong code.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "verify otp with blank field", "error", err)
		var fields validator.V10ValidationError
		if errors.As(err, &fields) && fields["username"] != "" {
			return nil, errUserNotFound()
		}
		return nil, errInvalidOTP()
	}

	user, err := s.repoDB.GetUserByUsername(ctx, in.Username)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "username", in.Username)
		return nil, errUserNotFound()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", in.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !user.Active {
		slog.WarnContext(ctx, "user account is inactive", "user_id", user.ID)
		return nil, errUserNotFound()
	}

	if !s.totp.Validate(in.OTP, user.OTPSecret, s.clock.Now()) {
		slog.WarnContext(ctx, "otp code not match", "user_id", user.ID)
		return nil, errInvalidOTP()
	}

	if s.repoReplay != nil {
		fresh, err := s.repoReplay.MarkConsumed(ctx, user.Username, in.OTP, s.totp.Lifetime())
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo mark otp consumed", "user_id", user.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if !fresh {
			slog.WarnContext(ctx, "otp code already used", "user_id", user.ID)
			return nil, errInvalidOTP()
		}
	}

	token, err := s.jwt.Generate(user.Username, 0)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}
