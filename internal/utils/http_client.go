package utils

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/takumanken/feed/pkg/logger"
	"go.uber.org/zap"
)

const maxLoggedBody = 2000

// LoggingTransport implements http.RoundTripper and logs requests and responses
// at debug level. Header values are never logged.
type LoggingTransport struct {
	Transport http.RoundTripper
}

// RoundTrip executes a single HTTP transaction and logs the request and response
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := logger.Log.With(
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
	)

	if req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			bodyBytes, _ := io.ReadAll(body)
			body.Close()
			log.Debug("Outbound request", zap.String("body", truncate(bodyBytes)))
		}
	} else {
		log.Debug("Outbound request")
	}

	start := time.Now()

	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	resp, err := transport.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Debug("Outbound request failed", zap.Duration("latency", duration), zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	}
	if resp.Body != nil && logger.Log.Core().Enabled(zap.DebugLevel) {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		if readErr != nil {
			return nil, readErr
		}
		fields = append(fields, zap.String("body", truncate(bodyBytes)))
	}
	log.Debug("Outbound response", fields...)

	return resp, nil
}

func truncate(b []byte) string {
	if len(b) == 0 {
		return "empty"
	}
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

// NewHTTPClient returns an http.Client with logging enabled. A zero timeout
// leaves the call unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Transport: http.DefaultTransport,
		},
	}
}
