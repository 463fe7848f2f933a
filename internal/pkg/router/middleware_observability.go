package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Request and response bodies here are small JSON documents; anything
// larger is cut before it reaches the log.
const maxLoggedBodyBytes = 8 * 1024

const masked = "***"

type maskSet map[string]struct{}

// newMaskSet always masks the Authorization header, plus the configured fields.
func newMaskSet(cfg config.Config) maskSet {
	keys := maskSet{"authorization": {}}
	if cfg != nil {
		for _, field := range cfg.GetArray("instrument.log_mask_fields") {
			keys[strings.ToLower(field)] = struct{}{}
		}
	}

	return keys
}

func (m maskSet) has(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m maskSet) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for key := range h {
		if m.has(key) {
			out[key] = masked
			continue
		}
		out[key] = h.Get(key)
	}

	return out
}

func (m maskSet) value(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.has(k) {
				out[k] = masked
				continue
			}
			out[k] = m.value(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.value(inner)
		}
		return out
	default:
		return v
	}
}

// body renders a captured body for logging. JSON is masked, other text is
// kept as is, binary is dropped.
func (m maskSet) body(raw []byte, truncated bool) any {
	if len(raw) == 0 {
		return nil
	}

	var doc any
	if !truncated && json.Unmarshal(raw, &doc) == nil {
		return m.value(doc)
	}
	if !utf8.Valid(raw) {
		return "<binary body omitted>"
	}
	if truncated {
		// A cut JSON document may still hold a secret in clear text.
		return "<truncated body omitted>"
	}

	return string(raw)
}

type statusRecorder struct {
	http.ResponseWriter
	status    int
	bytes     int
	body      bytes.Buffer
	truncated bool
	err       error
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); room < len(p) {
		w.body.Write(p[:max(room, 0)])
		w.truncated = true
	} else {
		w.body.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError lets the router hand the handler error to the span.
func (w *statusRecorder) SetError(err error) {
	w.err = err
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// captureRequestBody reads up to maxLoggedBodyBytes and puts the bytes back
// so the handler still sees the full body.
func captureRequestBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

func routeOf(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) httpMetrics {
	var m httpMetrics
	var err error

	m.requests, err = meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return m
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	masks := newMaskSet(cfg)
	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeOf(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			reqBody, reqTruncated := captureRequestBody(r)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			span.SetAttributes(attrs...)
			span.SetAttributes(
				semconv.NetworkProtocolVersionKey.String(r.Proto),
				semconv.ServerAddressKey.String(r.Host),
				semconv.UserAgentOriginalKey.String(r.UserAgent()),
				attribute.Int("http.response_content_length", rec.bytes),
			)
			if rec.err != nil {
				span.RecordError(rec.err)
			}
			switch {
			case status >= http.StatusInternalServerError && rec.err != nil:
				span.SetStatus(codes.Error, rec.err.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}

			if metrics.requests != nil {
				metrics.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if metrics.duration != nil {
				metrics.duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "http request",
				slog.Group("request",
					"method", r.Method,
					"route", route,
					"uri", r.RequestURI,
					"headers", masks.headers(r.Header),
					"body", masks.body(reqBody, reqTruncated),
				),
				slog.Group("response",
					"status", status,
					"bytes", rec.bytes,
					"body", masks.body(rec.body.Bytes(), rec.truncated),
				),
				"latency_ms", elapsed.Milliseconds(),
			)
		})
	}
}
