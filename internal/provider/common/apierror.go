package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
)

// ExtractErrorMessage returns the user-facing text for a provider error.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return githubErrorMessage(ghErr)
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		switch azErr := any(e).(type) {
		case azuredevops.WrappedError:
			return azureErrorMessage(&azErr)
		case *azuredevops.WrappedError:
			return azureErrorMessage(azErr)
		}
	}

	return err.Error()
}

// BuildErrorMessage formats a non-2xx response. The detail is taken from, in
// order: a JSON "message", "error.message", "errors[0].message", the raw body,
// and finally the status line itself.
func BuildErrorMessage(status int, statusText string, body []byte) string {
	if statusText == "" {
		statusText = http.StatusText(status)
	}

	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = nil
		}
	}

	detail := extractPayloadMessage(payload)
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	if detail == "" {
		detail = fmt.Sprintf("%d %s", status, statusText)
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s: %s", status, statusText, detail))
}

func extractPayloadMessage(payload any) string {
	object, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	if message, ok := object["message"].(string); ok {
		return message
	}
	if nested, ok := object["error"].(map[string]any); ok {
		if message, ok := nested["message"].(string); ok {
			return message
		}
	}
	if list, ok := object["errors"].([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if message, ok := first["message"].(string); ok {
				return message
			}
		}
	}
	return ""
}

func githubErrorMessage(ghErr *github.ErrorResponse) string {
	resp := ghErr.Response
	if resp != nil && resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(body) > 0 {
			return BuildErrorMessage(resp.StatusCode, http.StatusText(resp.StatusCode), body)
		}
	}

	message := ghErr.Message
	if message == "" && len(ghErr.Errors) > 0 {
		message = ghErr.Errors[0].Message
	}
	if resp == nil {
		if message == "" {
			return ghErr.Error()
		}
		return message
	}
	if message == "" {
		message = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return fmt.Sprintf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), message)
}

func azureErrorMessage(azErr *azuredevops.WrappedError) string {
	message := GetString(azErr.Message)
	if azErr.StatusCode == nil {
		if message == "" {
			return "Azure DevOps request failed"
		}
		return message
	}
	status := *azErr.StatusCode
	if message == "" {
		message = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	return fmt.Sprintf("%d %s: %s", status, http.StatusText(status), message)
}
