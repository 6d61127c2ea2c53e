package http

import (
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}

var redactedHeaders = []string{"Authorization", "X-Api-Key", "X-Goog-Api-Key"}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	headers := req.Header.Clone()
	for _, h := range redactedHeaders {
		if headers.Get(h) != "" {
			headers.Set(h, "[REDACTED]")
		}
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", headers),
	}

	if size, ok := ctx.Value(payloadContextKey{}).(int); ok && size > 0 {
		fields = append(fields, zap.Int("payload_size", size))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed", zap.Error(err))
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response", zap.Int("status", resp.StatusCode))
	return resp, nil
}

// WithRequestLogging wraps the HTTP transport with logging of method, URL,
// headers (secrets redacted) and payload size.
func WithRequestLogging() Option {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
