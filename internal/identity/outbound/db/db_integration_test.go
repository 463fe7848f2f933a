//go:build integration

package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/migrations"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("otpgate_test"),
		postgres.WithUsername("otpgate"),
		postgres.WithPassword("otpgate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Up(ctx, stdlib.OpenDBFromPool(pool), migrations.DriverPostgres))

	return pool
}

func TestDB_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	key := make([]byte, 32)
	sealer := mfa.NewSealer(mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: key}))
	store := NewDB(pool, sealer, instrument.NewNoop())

	user := entity.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "$2a$04$hash",
		OTPSecret: "JBSWY3DPEHPK3PXP",
		Active:    true,
		CreatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, store.CreateUser(ctx, user))

		got, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.OTPSecret, got.OTPSecret)
		assert.True(t, got.Active)
		assert.True(t, user.CreatedAt.Equal(got.CreatedAt))

		var stored string
		require.NoError(t, pool.QueryRow(ctx, "SELECT otp_secret FROM users WHERE id = $1", user.ID).Scan(&stored))
		assert.NotEqual(t, user.OTPSecret, stored)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, goerror.ErrNotFound)
	})

	t.Run("UsernameConflict", func(t *testing.T) {
		dup := user
		dup.ID = 2
		assert.ErrorIs(t, store.CreateUser(ctx, dup), goerror.ErrConflict)
	})

	t.Run("ConcurrentRegistrationsOneWins", func(t *testing.T) {
		const n = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			conflicts int
		)
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				u := user
				u.ID = int64(100 + i)
				u.Username = "racer"
				u.Email = fmt.Sprintf("racer%d@example.com", i)
				err := store.CreateUser(ctx, u)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, goerror.ErrConflict):
					conflicts++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, n-1, conflicts)
	})
}
