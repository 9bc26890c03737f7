package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	schemeRegex       = regexp.MustCompile(`(?i)^https?://`)
	gitSuffixRegex    = regexp.MustCompile(`(?i)\.git$`)
	visualStudioRegex = regexp.MustCompile(`(?i)^([^.]+)\.visualstudio\.com$`)
)

// ParseGitHubRepository accepts "owner/repo" or a github.com URL.
func ParseGitHubRepository(value string) (owner, repo string, err error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", "", fmt.Errorf("%w: repository is required, use owner/repo", ErrInvalidInput)
	}

	if schemeRegex.MatchString(raw) {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid repository URL '%s'", ErrInvalidInput, raw)
		}
		host := strings.ToLower(u.Hostname())
		if host != "github.com" && host != "www.github.com" {
			return "", "", fmt.Errorf("%w: GitHub repository URL must use github.com", ErrInvalidInput)
		}
		parts := pathSegments(u.EscapedPath())
		if len(parts) < 2 {
			return "", "", fmt.Errorf("%w: repository URL must include owner and repo", ErrInvalidInput)
		}
		return unescape(parts[0]), trimGitSuffix(unescape(parts[1])), nil
	}

	parts := pathSegments(raw)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: repository must be in owner/repo format, got '%s'", ErrInvalidInput, raw)
	}
	return parts[0], trimGitSuffix(parts[1]), nil
}

// ParseAzureOrganization accepts a bare organization name, a
// dev.azure.com/{org} URL or a {org}.visualstudio.com URL.
func ParseAzureOrganization(value string) (string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return "", fmt.Errorf("%w: organization URL is required", ErrInvalidInput)
	}

	if !strings.Contains(raw, "/") && !strings.Contains(raw, ".") {
		return raw, nil
	}

	normalized := raw
	if !strings.Contains(raw, "://") {
		normalized = "https://" + raw
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: invalid organization URL '%s'", ErrInvalidInput, raw)
	}
	host := strings.ToLower(u.Hostname())

	if host == "dev.azure.com" {
		parts := pathSegments(u.EscapedPath())
		if len(parts) == 0 {
			return "", fmt.Errorf("%w: organization URL must include the organization name", ErrInvalidInput)
		}
		return unescape(parts[0]), nil
	}

	if match := visualStudioRegex.FindStringSubmatch(host); match != nil {
		return match[1], nil
	}

	return "", fmt.Errorf("%w: use a valid Azure URL: https://dev.azure.com/{organization}", ErrInvalidInput)
}

// ResolveAzureProjectAndRepository extracts project and repository from a bare
// repository name, "project/repo", "project/_git/repo" or a browser URL. An
// explicit project always wins over one found in the repository string.
func ResolveAzureProjectAndRepository(repositoryValue, projectValue, organization string) (project, repository string, err error) {
	repository = strings.TrimSpace(repositoryValue)
	project = strings.TrimSpace(projectValue)

	if repository == "" {
		return "", "", fmt.Errorf("%w: repository is required", ErrInvalidInput)
	}

	if schemeRegex.MatchString(repository) {
		u, parseErr := url.Parse(repository)
		if parseErr != nil {
			return "", "", fmt.Errorf("%w: invalid repository URL '%s'", ErrInvalidInput, repository)
		}
		parts := pathSegments(u.EscapedPath())
		for i := range parts {
			parts[i] = unescape(parts[i])
		}
		if strings.EqualFold(u.Hostname(), "dev.azure.com") && len(parts) > 0 && strings.EqualFold(parts[0], organization) {
			parts = parts[1:]
		}

		if gitIndex := indexOf(parts, "_git"); gitIndex >= 0 {
			if project == "" && gitIndex > 0 {
				project = parts[gitIndex-1]
			}
			repository = ""
			if gitIndex+1 < len(parts) {
				repository = parts[gitIndex+1]
			}
		} else if len(parts) >= 2 {
			if project == "" {
				project = parts[0]
			}
			repository = parts[1]
		}
	}

	if left, right, found := strings.Cut(repository, "/_git/"); found {
		leftParts := pathSegments(left)
		rightParts := pathSegments(right)
		if project == "" && len(leftParts) > 0 {
			candidate := leftParts[len(leftParts)-1]
			if strings.EqualFold(candidate, organization) && len(leftParts) > 1 {
				candidate = leftParts[len(leftParts)-2]
			}
			project = candidate
		}
		if len(rightParts) > 0 {
			repository = rightParts[0]
		}
	} else if strings.Contains(repository, "/") {
		parts := pathSegments(repository)
		if len(parts) >= 2 {
			if project == "" {
				project = parts[0]
			}
			repository = parts[len(parts)-1]
		}
	}

	repository = trimGitSuffix(repository)

	if project == "" {
		return "", "", fmt.Errorf("%w: project is required for Azure DevOps", ErrInvalidInput)
	}
	if repository == "" {
		return "", "", fmt.Errorf("%w: repository is required for Azure DevOps", ErrInvalidInput)
	}
	return project, repository, nil
}

func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func unescape(segment string) string {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

func trimGitSuffix(value string) string {
	return gitSuffixRegex.ReplaceAllString(value, "")
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}
