package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/migrations"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

func openInMemory(t *testing.T) *DB {
	t.Helper()

	conn, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Up(context.Background(), conn, migrations.DriverSQLite))

	key := make([]byte, 32)
	sealer := mfa.NewSealer(mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: key}))

	return NewDB(conn, sealer, instrument.NewNoop())
}

func TestDB_CreateAndGet(t *testing.T) {
	db := openInMemory(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	in := entity.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$10$hash",
		OTPSecret: "JBSWY3DPEHPK3PXP",
		Active:    true,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.CreateUser(ctx, in))

	got, err := db.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, &in, got)

	var stored string
	require.NoError(t, db.conn.QueryRowContext(ctx, `SELECT otp_secret FROM users WHERE id = 1`).Scan(&stored))
	assert.NotEqual(t, in.OTPSecret, stored)
}

func TestDB_GetUserByUsername_NotFound(t *testing.T) {
	db := openInMemory(t)

	got, err := db.GetUserByUsername(context.Background(), "ghost")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestDB_CreateUser_Conflict(t *testing.T) {
	db := openInMemory(t)
	ctx := context.Background()

	first := entity.User{ID: 1, Username: "alice", Email: "a@example.com", Password: "x", OTPSecret: "JBSWY3DPEHPK3PXP", Active: true, CreatedAt: time.Now()}
	require.NoError(t, db.CreateUser(ctx, first))

	second := first
	second.ID = 2
	second.Email = "other@example.com"
	assert.ErrorIs(t, db.CreateUser(ctx, second), goerror.ErrConflict)

	got, err := db.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestDB_CreateUser_DuplicateID(t *testing.T) {
	db := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, entity.User{ID: 1, Username: "alice", OTPSecret: "JBSWY3DPEHPK3PXP", CreatedAt: time.Now()}))

	err := db.CreateUser(ctx, entity.User{ID: 1, Username: "bob", OTPSecret: "JBSWY3DPEHPK3PXP", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, goerror.ErrConflict)
}

func TestDB_CreateUser_Concurrent(t *testing.T) {
	db := openInMemory(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		created   atomic.Int32
		conflicts atomic.Int32
	)
	for i := range 16 {
		wg.Go(func() {
			err := db.CreateUser(ctx, entity.User{
				ID:        int64(i + 1),
				Username:  "racer",
				Email:     fmt.Sprintf("racer%d@example.com", i),
				Password:  "x",
				OTPSecret: "JBSWY3DPEHPK3PXP",
				Active:    true,
				CreatedAt: time.Now(),
			})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, goerror.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(15), conflicts.Load())
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), " ")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "users.db")
	conn, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Up(context.Background(), conn, migrations.DriverSQLite))

	var mode string
	require.NoError(t, conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
