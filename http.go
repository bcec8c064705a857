package main

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// loggingTransport wraps a RoundTripper with debug logging so advisor
// traffic shows up when --debug is set.
type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func (l *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	l.logger.Debug("http request", "method", req.Method, "url", req.URL.String())

	start := time.Now()
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		l.logger.Error("http request failed", "error", err)
		return nil, err
	}

	l.logger.Debug("http response",
		"status", resp.Status,
		"duration", time.Since(start),
		"url", req.URL.String(),
	)

	return resp, nil
}

func newLoggingTransport(next http.RoundTripper, logger *log.Logger) http.RoundTripper {
	return &loggingTransport{next: next, logger: logger}
}
