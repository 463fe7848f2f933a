package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Up(ctx, db, DriverSQLite))
	// second run has nothing pending
	require.NoError(t, Up(ctx, db, DriverSQLite))

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "users", name)
}

func TestUp_UnknownDriver(t *testing.T) {
	err := Up(context.Background(), nil, "mysql")
	assert.ErrorContains(t, err, "unsupported driver")
}
