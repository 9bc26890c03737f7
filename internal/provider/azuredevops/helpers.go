package azuredevops

import (
	"encoding/json"
	"strings"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
)

func organizationURL(organization string) string {
	return "https://dev.azure.com/" + organization
}

// extractBranchName accepts "main" as well as "refs/heads/main".
func extractBranchName(refName string) string {
	return strings.TrimPrefix(strings.TrimSpace(refName), "refs/heads/")
}

func branchDescriptor(branch string) *git.GitVersionDescriptor {
	versionType := git.GitVersionTypeValues.Branch
	return &git.GitVersionDescriptor{
		Version:     &branch,
		VersionType: &versionType,
	}
}

// unwrapItemText returns the file text of an items response. Depending on the
// request the body is the raw file or a JSON envelope with "content", a
// string "value" or "value[0].content".
func unwrapItemText(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return body
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return body
	}

	var content string
	if raw, ok := envelope["content"]; ok && json.Unmarshal(raw, &content) == nil {
		return content
	}
	if raw, ok := envelope["value"]; ok {
		if json.Unmarshal(raw, &content) == nil {
			return content
		}
		var items []struct {
			Content *string `json:"content"`
		}
		if json.Unmarshal(raw, &items) == nil && len(items) > 0 && items[0].Content != nil {
			return *items[0].Content
		}
	}
	return body
}
