package db

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

const queryCreateUser = `INSERT INTO users (id, username, email, password, otp_secret, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (username) DO NOTHING`

// CreateUser inserts the user unless the username is already taken, in which
// case goerror.ErrConflict is returned and nothing is written.
func (s *DB) CreateUser(ctx context.Context, in entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	sealed, err := s.sealer.Seal(in.OTPSecret, mfa.OTPSeed(in.ID))
	if err != nil {
		return fmt.Errorf("seal otp secret: %w", err)
	}

	tag, err := s.conn.Exec(ctx, queryCreateUser,
		in.ID,
		in.Username,
		in.Email,
		in.Password,
		sealed,
		in.Active,
		in.CreatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return goerror.ErrConflict
	}

	return nil
}
