package github

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport is an http.RoundTripper that logs every GitHub REST call
// at debug level. Request bodies and headers are never logged.
//
// Usage:
//
//	httpClient := &http.Client{
//	    Transport: &github.LoggingTransport{Logger: logger},
//	}
type LoggingTransport struct {
	// Transport is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Transport http.RoundTripper
	// Logger receives the log lines. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := transport.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"duration", time.Since(start),
	}
	if err != nil {
		logger.DebugContext(req.Context(), "github request failed", append(attrs, "error", err)...)
		return resp, err
	}
	logger.DebugContext(req.Context(), "github request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
