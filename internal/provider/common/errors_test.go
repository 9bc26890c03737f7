package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
)

func TestBuildErrorMessage(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		statusText string
		body       string
		expected   string
	}{
		{
			name:     "top level message",
			status:   401,
			body:     `{"message":"Bad credentials"}`,
			expected: "401 Unauthorized: Bad credentials",
		},
		{
			name:     "nested error message",
			status:   403,
			body:     `{"error":{"message":"Access denied"}}`,
			expected: "403 Forbidden: Access denied",
		},
		{
			name:     "errors array",
			status:   422,
			body:     `{"errors":[{"message":"Validation failed"}]}`,
			expected: "422 Unprocessable Entity: Validation failed",
		},
		{
			name:     "raw text body",
			status:   502,
			body:     "upstream went away\n",
			expected: "502 Bad Gateway: upstream went away",
		},
		{
			name:     "empty body falls back to status",
			status:   404,
			expected: "404 Not Found: 404 Not Found",
		},
		{
			name:       "explicit status text",
			status:     404,
			statusText: "Gone Fishing",
			body:       `{"message":"nope"}`,
			expected:   "404 Gone Fishing: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildErrorMessage(tt.status, tt.statusText, []byte(tt.body))
			if result != tt.expected {
				t.Errorf("BuildErrorMessage() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractErrorMessage(t *testing.T) {
	notFound := 404
	azureMessage := "TF401019: The Git repository does not exist."

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "GitHub error with body",
			err: &github.ErrorResponse{
				Response: &http.Response{
					StatusCode: 401,
					Body:       io.NopCloser(bytes.NewBufferString(`{"message":"Bad credentials"}`)),
				},
				Message: "Bad credentials",
			},
			expected: "401 Unauthorized: Bad credentials",
		},
		{
			name: "GitHub error without body uses nested errors",
			err: &github.ErrorResponse{
				Response: &http.Response{StatusCode: 422},
				Errors:   []github.Error{{Message: "Validation failed"}},
			},
			expected: "422 Unprocessable Entity: Validation failed",
		},
		{
			name: "wrapped GitHub error",
			err: fmt.Errorf("fetch tree: %w", &github.ErrorResponse{
				Response: &http.Response{StatusCode: 404},
				Message:  "Not Found",
			}),
			expected: "404 Not Found: Not Found",
		},
		{
			name:     "Azure error value",
			err:      azuredevops.WrappedError{Message: &azureMessage, StatusCode: &notFound},
			expected: "404 Not Found: " + azureMessage,
		},
		{
			name:     "wrapped Azure error pointer",
			err:      fmt.Errorf("list items: %w", &azuredevops.WrappedError{Message: &azureMessage, StatusCode: &notFound}),
			expected: "404 Not Found: " + azureMessage,
		},
		{
			name:     "Azure error without status",
			err:      &azuredevops.WrappedError{Message: &azureMessage},
			expected: azureMessage,
		},
		{
			name:     "sentinel error",
			err:      fmt.Errorf("%w: use owner/repo", ErrInvalidInput),
			expected: "invalid input: use owner/repo",
		},
		{
			name:     "simple error message",
			err:      errors.New("connection timeout"),
			expected: "connection timeout",
		},
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractErrorMessage(tt.err)
			if result != tt.expected {
				t.Errorf("ExtractErrorMessage() = %q, want %q", result, tt.expected)
			}
		})
	}
}
