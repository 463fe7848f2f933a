package identity

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/identity/inbound"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/cache"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/email"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/sqlite"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/mfa"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// ErrNoStore is returned when neither database handle is provided.
var ErrNoStore = errors.New("identity: no user store configured")

type userStore interface {
	CreateUser(ctx context.Context, in entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

type Dependency struct {
	// Exactly one of PgPool and SQLite is used; PgPool wins when both are set.
	PgPool *pgxpool.Pool
	SQLite *sql.DB
	// CacheConn enables the OTP replay guard when modules.identity.otp_replay_guard is on.
	CacheConn *redis.Client

	Router       *router.Router             `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	HMAC         hash.Hash                  `validate:"required"`
	Bcrypt       hash.Hash                  `validate:"required"`
	MFAEncryptor mfa.Encryptor              `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Totp         otp.OTP                    `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	JWT          jwt.JWT                    `validate:"required"`
	Mail         mail.Mail                  `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	sealer := mfa.NewSealer(dep.MFAEncryptor)

	var repoDB userStore
	switch {
	case dep.PgPool != nil:
		repoDB = db.NewDB(dep.PgPool, sealer, dep.Instrument)
	case dep.SQLite != nil:
		repoDB = sqlite.NewDB(dep.SQLite, sealer, dep.Instrument)
	default:
		return ErrNoStore
	}

	ucDep := usecase.Dependency{
		RepoDB:       repoDB,
		RepoNotifier: email.New(dep.Mail, dep.Instrument, dep.Config.GetInt("mail.max_attempts")),
		Validator:    dep.Validator,
		Config:       dep.Config,
		Bcrypt:       dep.Bcrypt,
		UID:          dep.UID,
		Totp:         dep.Totp,
		Clock:        dep.Clock,
		JWT:          dep.JWT,
		Instrument:   dep.Instrument,
	}
	if dep.CacheConn != nil && dep.Config.GetBool("modules.identity.otp_replay_guard") {
		ucDep.RepoReplay = cache.NewReplay(dep.CacheConn, dep.HMAC, dep.Instrument)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep))

	return nil
}
