package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type IdentifyInput struct {
	Token string
}

func errUnauthenticated() error {
	return goerror.NewBusiness("Could not validate credentials", goerror.CodeUnauthorized)
}

// Identify resolves a session token to the profile of its subject. Every
// token failure maps to the same client-facing error.
func (s *Usecase) Identify(ctx context.Context, in IdentifyInput) (*entity.Profile, error) {
	ctx, span := s.startSpan(ctx, "Identify")
	defer span.End()

	if in.Token == "" {
		return nil, errUnauthenticated()
	}

	clm, err := s.jwt.Verify(in.Token)
	if err != nil {
		slog.WarnContext(ctx, "failed to verify access token", "error", err)
		return nil, errUnauthenticated()
	}

	user, err := s.repoDB.GetUserByUsername(ctx, clm.Subject)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token subject no longer exists", "username", clm.Subject)
		return nil, errUnauthenticated()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by username", "username", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	profile := user.Profile()
	return &profile, nil
}
