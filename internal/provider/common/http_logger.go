package common

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/iconbridge/internal/logger"
)

const maxLoggedBody = 512

// LoggingTransport wraps an http.RoundTripper and logs one line per request.
// Response bodies are only logged for failed requests.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start).Round(time.Millisecond)

	if err != nil {
		logger.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, redactURL(req)), err)
		return nil, err
	}

	logger.Log("HTTP: %s %s -> %s (%v)%s", req.Method, redactURL(req), resp.Status, duration, authSummary(req.Header))

	if resp.StatusCode >= http.StatusBadRequest && resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if readErr == nil && len(body) > 0 {
			logger.Log("HTTP: error body: %s", truncate(string(body), maxLoggedBody))
		}
	}

	return resp, nil
}

func redactURL(req *http.Request) string {
	u := *req.URL
	u.User = nil
	query := u.Query()
	for key := range query {
		if isSensitiveHeader(key) || strings.EqualFold(key, "access_token") {
			query.Set(key, "[REDACTED]")
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func authSummary(header http.Header) string {
	var redacted []string
	for name := range header {
		if isSensitiveHeader(name) {
			redacted = append(redacted, name)
		}
	}
	if len(redacted) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s: REDACTED]", strings.Join(redacted, ", "))
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key", "api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}
