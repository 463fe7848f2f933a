package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type RegisterInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=1024"`
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	secret, err := s.totp.GenerateSecret(in.Username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "username", in.Username, "error", err)
		return goerror.NewServer(err)
	}

	user := entity.User{
		ID:        s.uid.Generate(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashedPassword),
		OTPSecret: secret,
		Active:    true,
		CreatedAt: s.clock.Now(),
	}

	err = s.repoDB.CreateUser(ctx, user)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "username already registered", "username", in.Username)
		return goerror.NewBusiness("Username already registered", goerror.CodeBadRequest)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "username", in.Username, "error", err)
		return goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	return nil
}
