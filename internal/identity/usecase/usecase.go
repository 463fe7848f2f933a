package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const (
	otpMailSubject = "Your OTP Code"
	otpMailBody    = "Your OTP code is: "
)

type repoDB interface {
	CreateUser(ctx context.Context, in entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
}

type repoNotifier interface {
	SendOTP(ctx context.Context, destination, subject, body string) error
}

type repoReplay interface {
	MarkConsumed(ctx context.Context, username, code string, ttl time.Duration) (bool, error)
}

type Usecase struct {
	repoDB       repoDB
	repoNotifier repoNotifier
	repoReplay   repoReplay
	validator    validator.Validator
	cfg          config.Config
	bcrypt       hash.Hash
	uid          uid.NumberID
	totp         otp.OTP
	clock        clock.Clocker
	jwt          jwt.JWT
	ins          instrument.Instrumentation
}

type Dependency struct {
	RepoDB       repoDB
	RepoNotifier repoNotifier
	// RepoReplay is optional; without it a code may be exchanged more than once inside its window.
	RepoReplay repoReplay
	Validator  validator.Validator
	Config     config.Config
	Bcrypt     hash.Hash
	UID        uid.NumberID
	Totp       otp.OTP
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:       dep.RepoDB,
		repoNotifier: dep.RepoNotifier,
		repoReplay:   dep.RepoReplay,
		validator:    dep.Validator,
		cfg:          dep.Config,
		bcrypt:       dep.Bcrypt,
		uid:          dep.UID,
		totp:         dep.Totp,
		clock:        dep.Clock,
		jwt:          dep.JWT,
		ins:          dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
