package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	buf.Reset()

	return out
}

func TestNewLogger_Keys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "otpgate", nil, nil)

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello", "username", "alice")

	line := decodeLine(t, &buf)
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "otpgate", line["service"])
	assert.Equal(t, "alice", line["username"])
	assert.Contains(t, line["file"], "internal/pkg/instrument/logging_test.go:")
}

func TestNewLogger_Masking(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "otpgate", nil, []string{"Password", " otp ", "access_token"})

	logger.Info("request",
		"password", "pw1",
		"body", `{"username":"alice","otp":"123456"}`,
		"raw", []byte(`{"access_token":"abc"}`),
		"fields", map[string]string{"password": "x", "email": "a@x.com"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["password"])
	assert.JSONEq(t, `{"username":"alice","otp":"***"}`, line["body"].(string))
	assert.JSONEq(t, `{"access_token":"***"}`, line["raw"].(string))
	assert.Equal(t, map[string]any{"password": "***", "email": "a@x.com"}, line["fields"])

	logger.With("otp", "654321").Info("with attrs")
	line = decodeLine(t, &buf)
	assert.Equal(t, "***", line["otp"])
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))

	id := NewCorrelationID()
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetCorrelationID(SetCorrelationID(context.Background(), id)))
}

func TestNew_DisabledIsNoop(t *testing.T) {
	ins, err := New(context.Background(), &Config{ServiceName: "otpgate"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "op")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
	require.NoError(t, ins.Shutdown(context.Background()))
}
