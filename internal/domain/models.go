package domain

import "strings"

type ProviderKind string

const (
	ProviderGitHub ProviderKind = "github"
	ProviderAzure  ProviderKind = "azure"
)

// ProviderKinds lists the supported providers in reconciliation order.
var ProviderKinds = []ProviderKind{ProviderAzure, ProviderGitHub}

func ParseProviderKind(value string) (ProviderKind, bool) {
	switch ProviderKind(strings.TrimSpace(value)) {
	case ProviderGitHub:
		return ProviderGitHub, true
	case ProviderAzure:
		return ProviderAzure, true
	default:
		return "", false
	}
}

func (k ProviderKind) DisplayName() string {
	switch k {
	case ProviderGitHub:
		return "GitHub"
	case ProviderAzure:
		return "Azure DevOps"
	default:
		return string(k)
	}
}

const DefaultBranch = "main"

// ProviderConfig holds the connection settings for one provider.
// OrganizationURL and Project are only used by Azure DevOps.
type ProviderConfig struct {
	Connected       bool   `json:"connected"`
	PAT             string `json:"pat"`
	Repository      string `json:"repository"`
	Branch          string `json:"branch"`
	OrganizationURL string `json:"organizationUrl,omitempty"`
	Project         string `json:"project,omitempty"`
}

type AppConfig struct {
	SelectedProvider ProviderKind                    `json:"selectedProvider"`
	Providers        map[ProviderKind]ProviderConfig `json:"providers"`
}

func (c AppConfig) Provider(kind ProviderKind) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{Branch: DefaultBranch}
	}
	return c.Providers[kind]
}

func (c AppConfig) Clone() AppConfig {
	out := AppConfig{
		SelectedProvider: c.SelectedProvider,
		Providers:        make(map[ProviderKind]ProviderConfig, len(c.Providers)),
	}
	for kind, cfg := range c.Providers {
		out.Providers[kind] = cfg
	}
	return out
}

type IconSummary struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Tag   string `json:"tag"`
}

// DisplayLabel is the label used for sorting and listing.
func (i IconSummary) DisplayLabel() string {
	if title := strings.TrimSpace(i.Title); title != "" {
		return title
	}
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return "Icon"
}

// IconDescriptor carries what a provider needs to fetch one icon body.
// GitHub uses Owner/Repo/SHA, Azure DevOps uses Organization/Project/Repository.
type IconDescriptor struct {
	Provider     ProviderKind
	Branch       string
	Path         string
	Owner        string
	Repo         string
	SHA          string
	Organization string
	Project      string
	Repository   string
}

func IconID(kind ProviderKind, path string) string {
	return string(kind) + ":" + path
}

// ProviderFromIconID returns the provider prefix of an icon id.
func ProviderFromIconID(id string) (ProviderKind, bool) {
	prefix, _, found := strings.Cut(id, ":")
	if !found {
		return "", false
	}
	return ParseProviderKind(prefix)
}

type Variant string

const (
	VariantOutline Variant = "outline"
	VariantFill    Variant = "fill"
	VariantBulk    Variant = "bulk"
)

func ParseVariant(value string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "outline", "outlined":
		return VariantOutline, true
	case "fill", "filled":
		return VariantFill, true
	case "bulk":
		return VariantBulk, true
	default:
		return "", false
	}
}

type IconIdentity struct {
	Provider ProviderKind
	IconID   string
	Path     string
	BaseName string
	BaseKey  string
	Variant  Variant
	Size     int
}

type IconIndex struct {
	Icons            []IconSummary
	Descriptors      map[string]IconDescriptor
	NormalizedConfig ProviderConfig
}

// IconMetadata is one row of the optional Icons.json sidecar.
type IconMetadata struct {
	Name  string
	Title string
	Tag   string
}
