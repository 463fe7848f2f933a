package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpgate/internal/identity"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			PgPool:       a.pgPool,
			SQLite:       a.sqliteDB,
			CacheConn:    a.cacheConn,
			Router:       a.router,
			Config:       a.config,
			Instrument:   a.ins,
			UID:          a.uid,
			HMAC:         a.hmac,
			Bcrypt:       a.bcrypt,
			MFAEncryptor: a.mfaEncryptor,
			Clock:        a.clock,
			Totp:         a.totp,
			Validator:    a.validator,
			JWT:          a.jwt,
			Mail:         a.mail,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}
}
