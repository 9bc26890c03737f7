package common

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johanforsgren/iconbridge/internal/logger"
)

func TestLoggingTransportRedactsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer server.Close()

	client := &http.Client{Transport: NewLoggingTransport(nil)}
	req, err := http.NewRequest(http.MethodGet, server.URL+"/repos/acme/icons?access_token=secret-query", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret-header")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(body) != `{"message":"Bad credentials"}` {
		t.Errorf("response body was not restored, got %q", body)
	}

	var joined strings.Builder
	for _, entry := range logger.GetLogs() {
		joined.WriteString(entry.Message)
		joined.WriteString("\n")
	}
	logs := joined.String()

	for _, secret := range []string{"secret-query", "secret-header"} {
		if strings.Contains(logs, secret) {
			t.Errorf("logs contain %q:\n%s", secret, logs)
		}
	}
	if !strings.Contains(logs, "401 Unauthorized") {
		t.Errorf("logs do not mention the status:\n%s", logs)
	}
	if !strings.Contains(logs, "Bad credentials") {
		t.Errorf("logs do not include the error body:\n%s", logs)
	}
}

func TestIsSensitiveHeader(t *testing.T) {
	tests := map[string]bool{
		"Authorization": true,
		"cookie":        true,
		"X-Api-Key":     true,
		"Accept":        false,
		"User-Agent":    false,
	}
	for name, want := range tests {
		if got := isSensitiveHeader(name); got != want {
			t.Errorf("isSensitiveHeader(%q) = %v, want %v", name, got, want)
		}
	}
}
