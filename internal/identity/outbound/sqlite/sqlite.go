// Package sqlite is the embedded-database user store, used for local runs and
// single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
)

const (
	queryCreateUser = `INSERT INTO users (id, username, email, password, otp_secret, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (username) DO NOTHING`

	queryGetUserByUsername = `SELECT id, username, email, password, otp_secret, is_active, created_at
FROM users
WHERE username = ?`
)

type sealer interface {
	Seal(secret string, scope mfa.Scope) (string, error)
	Open(sealed string, scope mfa.Scope) (string, error)
}

// Open opens the database at path (":memory:" for a throwaway one) with a
// single connection, since SQLite serialises writers anyway.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return conn, nil
}

type DB struct {
	conn   *sql.DB
	sealer sealer
	ins    instrument.Instrumentation
}

func NewDB(conn *sql.DB, sealer sealer, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, sealer: sealer, ins: ins}
}

func (s *DB) CreateUser(ctx context.Context, in entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	sealed, err := s.sealer.Seal(in.OTPSecret, mfa.OTPSeed(in.ID))
	if err != nil {
		return fmt.Errorf("seal otp secret: %w", err)
	}

	res, err := s.conn.ExecContext(ctx, queryCreateUser,
		in.ID,
		in.Username,
		in.Email,
		in.Password,
		sealed,
		in.Active,
		in.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return s.mapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return goerror.ErrConflict
	}

	return nil
}

func (s *DB) GetUserByUsername(ctx context.Context, username string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByUsername")
	defer func() { s.endSpan(span, err) }()

	var (
		user      entity.User
		sealed    string
		createdAt int64
	)
	err = s.conn.QueryRowContext(ctx, queryGetUserByUsername, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&sealed,
		&user.Active,
		&createdAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	user.CreatedAt = time.UnixMilli(createdAt).UTC()

	user.OTPSecret, err = s.sealer.Open(sealed, mfa.OTPSeed(user.ID))
	if err != nil {
		return nil, fmt.Errorf("open otp secret: %w", err)
	}

	return &user, nil
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return goerror.ErrConflict
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.sqlite").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
