package storage

import (
	"strconv"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/domain"
)

// DefaultConfig has both providers disconnected on the default branch.
func DefaultConfig() domain.AppConfig {
	return NormalizeConfig(nil)
}

// NormalizeConfig builds an AppConfig from a decoded JSON value of any shape.
// Unknown providers are dropped and a selection pointing at a disconnected
// provider is cleared.
func NormalizeConfig(raw any) domain.AppConfig {
	source, _ := raw.(map[string]any)
	providers, _ := source["providers"].(map[string]any)

	cfg := domain.AppConfig{
		Providers: make(map[domain.ProviderKind]domain.ProviderConfig, len(domain.ProviderKinds)),
	}
	for _, kind := range domain.ProviderKinds {
		cfg.Providers[kind] = NormalizeProviderConfig(kind, providers[string(kind)])
	}

	if selected, ok := domain.ParseProviderKind(stringValue(source["selectedProvider"])); ok && cfg.Providers[selected].Connected {
		cfg.SelectedProvider = selected
	}
	return cfg
}

// NormalizeProviderConfig trims every field, defaults the branch to "main"
// and keeps the Azure-only fields for Azure only.
func NormalizeProviderConfig(kind domain.ProviderKind, raw any) domain.ProviderConfig {
	source, _ := raw.(map[string]any)

	cfg := domain.ProviderConfig{
		Connected:  truthy(source["connected"]),
		PAT:        stringValue(source["pat"]),
		Repository: stringValue(source["repository"]),
		Branch:     stringValue(source["branch"]),
	}
	if cfg.Branch == "" {
		cfg.Branch = domain.DefaultBranch
	}
	if kind == domain.ProviderAzure {
		cfg.OrganizationURL = stringValue(source["organizationUrl"])
		cfg.Project = stringValue(source["project"])
	}
	return cfg
}

// MergeProviderConfig applies user submitted values over the current config
// and marks the provider connected. Keys that are absent keep their value.
func MergeProviderConfig(kind domain.ProviderKind, current domain.ProviderConfig, values map[string]string) domain.ProviderConfig {
	merged := providerConfigMap(current)
	for key, value := range values {
		merged[key] = value
	}
	merged["connected"] = true
	return NormalizeProviderConfig(kind, merged)
}

// ApplyNormalized overlays the non-empty fields a provider reported back
// after a successful sync.
func ApplyNormalized(kind domain.ProviderKind, current, normalized domain.ProviderConfig) domain.ProviderConfig {
	merged := providerConfigMap(current)
	for key, value := range providerConfigMap(normalized) {
		if s, ok := value.(string); ok && s != "" {
			merged[key] = s
		}
	}
	merged["connected"] = true
	return NormalizeProviderConfig(kind, merged)
}

// EnsureSelectedProvider keeps the selection when it points at a connected
// provider, otherwise selects the first connected one (Azure DevOps before
// GitHub) or none.
func EnsureSelectedProvider(cfg *domain.AppConfig) domain.ProviderKind {
	if cfg.SelectedProvider != "" && cfg.Provider(cfg.SelectedProvider).Connected {
		return cfg.SelectedProvider
	}

	cfg.SelectedProvider = ""
	for _, kind := range domain.ProviderKinds {
		if cfg.Provider(kind).Connected {
			cfg.SelectedProvider = kind
			break
		}
	}
	return cfg.SelectedProvider
}

func providerConfigMap(cfg domain.ProviderConfig) map[string]any {
	return map[string]any{
		"connected":       cfg.Connected,
		"pat":             cfg.PAT,
		"repository":      cfg.Repository,
		"branch":          cfg.Branch,
		"organizationUrl": cfg.OrganizationURL,
		"project":         cfg.Project,
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// truthy follows JSON truthiness: false, 0, "" and null are false.
func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}
