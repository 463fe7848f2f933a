package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const defaultConfig = `
modules:
  identity:
    expose_otp_in_response: false
`

type memoryDB struct {
	mu     sync.Mutex
	users  map[string]entity.User
	getErr error
	putErr error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{users: map[string]entity.User{}}
}

func (m *memoryDB) CreateUser(_ context.Context, in entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}
	if _, ok := m.users[in.Username]; ok {
		return goerror.ErrConflict
	}
	m.users[in.Username] = in
	return nil
}

func (m *memoryDB) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[username]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

type sentMail struct {
	To, Subject, Body string
}

type memoryNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *memoryNotifier) SendOTP(_ context.Context, destination, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: destination, Subject: subject, Body: body})
	return nil
}

func (m *memoryNotifier) lastCode(t *testing.T) string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent)
	body := m.sent[len(m.sent)-1].Body
	require.True(t, strings.HasPrefix(body, otpMailBody))
	return strings.TrimPrefix(body, otpMailBody)
}

type memoryReplay struct {
	seen map[string]time.Duration
	err  error
}

func (m *memoryReplay) MarkConsumed(_ context.Context, username, code string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	k := username + ":" + code
	if _, ok := m.seen[k]; ok {
		return false, nil
	}
	m.seen[k] = ttl
	return true, nil
}

type testEnv struct {
	uc       *Usecase
	db       *memoryDB
	notifier *memoryNotifier
	replay   *memoryReplay
	clock    *clock.Fixed
	jwt      *jwt.Symmetric
}

type envOption func(*Dependency)

func withoutReplay() envOption {
	return func(d *Dependency) { d.RepoReplay = nil }
}

func newTestEnv(t *testing.T, cfgYAML string, opts ...envOption) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(cfgYAML))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	sf, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	clk := &clock.Fixed{At: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}

	tokens, err := jwt.NewHS256(jwt.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "otpgate",
		TTL:    30 * time.Minute,
		Clock:  clk,
		UUID:   uid.NewUUID(),
	})
	require.NoError(t, err)

	env := &testEnv{
		db:       newMemoryDB(),
		notifier: &memoryNotifier{},
		replay:   &memoryReplay{seen: map[string]time.Duration{}},
		clock:    clk,
		jwt:      tokens,
	}

	dep := Dependency{
		RepoDB:       env.db,
		RepoNotifier: env.notifier,
		RepoReplay:   env.replay,
		Validator:    v,
		Config:       cfg,
		Bcrypt:       hash.NewBcrypt(4, "pepper"),
		UID:          sf,
		Totp:         otp.NewTOTP(otp.Config{Issuer: "otpgate", Period: 30, Skew: 1, Digits: 6}),
		Clock:        clk,
		JWT:          tokens,
		Instrument:   instrument.NewNoop(),
	}
	for _, opt := range opts {
		opt(&dep)
	}

	env.uc = New(dep)
	return env
}

func (e *testEnv) register(t *testing.T, username, email, password string) {
	t.Helper()
	require.NoError(t, e.uc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	}))
}

func requireCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, goerror.CodeOf(err), "error: %v", err)
}
