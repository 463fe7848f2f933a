package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/shandysiswandi/otpgate/internal/identity/outbound/migrations"
	"github.com/shandysiswandi/otpgate/internal/identity/outbound/sqlite"
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

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if err := config.Require(cfg, "jwt.secret", "mfa.secret", "mail.host", "mail.port", "mail.from"); err != nil {
		slog.Error("failed to validate config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	v, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validator", "error", err)
		os.Exit(1)
	}
	a.validator = v

	snow, err := uid.NewSnowflake(int64(a.config.GetInt("app.node_id")))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.totp = otp.NewTOTP(otp.Config{
		Issuer: a.config.GetString("mfa.totp.issuer"),
		Period: a.config.GetUint("mfa.totp.period"),
		Skew:   a.config.GetUint("mfa.totp.skew"),
		Digits: a.config.GetUint("mfa.totp.digits"),
	})

	rawKey := a.config.GetBinary("mfa.secret")
	if len(rawKey) != 32 {
		slog.Error("failed to init mfa encryptor, secret must be base64 of 32 bytes (AES-256)", "length", len(rawKey))
		os.Exit(1)
	}
	a.mfaEncryptor = mfa.NewAESGCMEncryptor(mfa.StaticKeyProvider{KeyBytes: rawKey})
}

func (a *App) initJWT() {
	token, err := jwt.NewHS256(jwt.Config{
		Secret: []byte(a.config.GetString("jwt.secret")),
		Issuer: a.config.GetString("jwt.issuer"),
		TTL:    a.config.GetMinute("jwt.ttl_minutes"),
		Clock:  a.clock,
		UUID:   a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = token
}

func (a *App) initDatabase() {
	switch driver := strings.TrimSpace(a.config.GetString("database.driver")); driver {
	case migrations.DriverPostgres:
		a.initPostgres()
	case migrations.DriverSQLite:
		a.initSQLite()
	default:
		slog.Error("failed to init database, unsupported driver", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initPostgres() {
	cfg, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	if v := a.config.GetInt32("database.pool.max_conns"); v > 0 {
		cfg.MaxConns = v
	}
	cfg.MinConns = a.config.GetInt32("database.pool.min_conns")
	if v := a.config.GetSecond("database.pool.max_conn_lifetime_seconds"); v > 0 {
		cfg.MaxConnLifetime = v
	}
	if v := a.config.GetSecond("database.pool.max_conn_idle_seconds"); v > 0 {
		cfg.MaxConnIdleTime = v
	}
	if v := a.config.GetSecond("database.pool.health_check_period_seconds"); v > 0 {
		cfg.HealthCheckPeriod = v
	}

	pool, err := pgxpool.NewWithConfig(a.ctx, cfg)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	// The sql.DB shares the pool; closing the pool releases it.
	if err := migrations.Up(a.ctx, stdlib.OpenDBFromPool(pool), migrations.DriverPostgres); err != nil {
		slog.Error("failed to migrate DB", "error", err)
		os.Exit(1)
	}

	a.pgPool = pool
}

func (a *App) initSQLite() {
	db, err := sqlite.Open(a.ctx, a.config.GetString("database.sqlite_path"))
	if err != nil {
		slog.Error("failed to open sqlite DB", "error", err)
		os.Exit(1)
	}

	if err := migrations.Up(a.ctx, db, migrations.DriverSQLite); err != nil {
		slog.Error("failed to migrate DB", "error", err)
		os.Exit(1)
	}

	a.sqliteDB = db
}

func (a *App) initCache() {
	if !a.config.GetBool("redis.enabled") {
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

func (a *App) initMail() {
	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
		FromName: a.config.GetString("mail.from_name"),
		Timeout:  a.config.GetSecond("mail.timeout_seconds"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = m
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.pgPool != nil {
					a.pgPool.Close()
				}
				if a.sqliteDB != nil {
					return a.sqliteDB.Close()
				}

				return nil
			},
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
