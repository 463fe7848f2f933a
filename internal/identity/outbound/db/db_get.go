package db

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

const queryGetUserByUsername = `SELECT id, username, email, password, otp_secret, is_active, created_at
FROM users
WHERE username = $1`

func (s *DB) GetUserByUsername(ctx context.Context, username string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByUsername")
	defer func() { s.endSpan(span, err) }()

	var (
		user   entity.User
		sealed string
	)
	err = s.conn.QueryRow(ctx, queryGetUserByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&sealed,
		&user.Active,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	user.OTPSecret, err = s.sealer.Open(sealed, mfa.OTPSeed(user.ID))
	if err != nil {
		return nil, fmt.Errorf("open otp secret: %w", err)
	}

	return &user, nil
}
