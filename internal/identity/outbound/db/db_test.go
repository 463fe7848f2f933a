package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

var userColumns = []string{"id", "username", "email", "password", "otp_secret", "is_active", "created_at"}

func newTestDB(t *testing.T) (*DB, pgxmock.PgxPoolIface, *mfa.Sealer) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	sealer := mfa.NewSealer(mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: key}))

	return NewDB(mock, sealer, instrument.NewNoop()), mock, sealer
}

func TestDB_CreateUser(t *testing.T) {
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	user := entity.User{
		ID:        42,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$10$hash",
		OTPSecret: "JBSWY3DPEHPK3PXP",
		Active:    true,
		CreatedAt: createdAt,
	}

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(queryCreateUser)).
					WithArgs(int64(42), "alice", "alice@example.com", "$2a$10$hash", pgxmock.AnyArg(), true, createdAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "username taken, nothing inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(queryCreateUser)).
					WithArgs(int64(42), "alice", "alice@example.com", "$2a$10$hash", pgxmock.AnyArg(), true, createdAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			wantErr: goerror.ErrConflict,
		},
		{
			name: "unique violation",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(queryCreateUser)).
					WithArgs(int64(42), "alice", "alice@example.com", "$2a$10$hash", pgxmock.AnyArg(), true, createdAt).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: goerror.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, _ := newTestDB(t)
			tt.setup(mock)

			err := db.CreateUser(context.Background(), user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_CreateUser_ConnectionError(t *testing.T) {
	db, mock, _ := newTestDB(t)
	boom := errors.New("connection refused")

	mock.ExpectExec(regexp.QuoteMeta(queryCreateUser)).WillReturnError(boom)

	err := db.CreateUser(context.Background(), entity.User{ID: 1, Username: "bob", OTPSecret: "JBSWY3DPEHPK3PXP"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_GetUserByUsername(t *testing.T) {
	db, mock, sealer := newTestDB(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sealed, err := sealer.Seal("JBSWY3DPEHPK3PXP", mfa.OTPSeed(42))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetUserByUsername)).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(42), "alice", "alice@example.com", "$2a$10$hash", sealed, true, createdAt))

	got, err := db.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &entity.User{
		ID:        42,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$10$hash",
		OTPSecret: "JBSWY3DPEHPK3PXP",
		Active:    true,
		CreatedAt: createdAt,
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_GetUserByUsername_NotFound(t *testing.T) {
	db, mock, _ := newTestDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetUserByUsername)).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	got, err := db.GetUserByUsername(context.Background(), "ghost")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, goerror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_GetUserByUsername_SealedForAnotherUser(t *testing.T) {
	db, mock, sealer := newTestDB(t)

	sealed, err := sealer.Seal("JBSWY3DPEHPK3PXP", mfa.OTPSeed(7))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetUserByUsername)).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(42), "alice", "alice@example.com", "x", sealed, true, time.Now()))

	_, err = db.GetUserByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, mfa.ErrDecryptFailed)
}
