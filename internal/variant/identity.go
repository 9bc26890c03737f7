package variant

import (
	"strconv"

	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/naming"
)

// Plugin data keys written on every placed icon node.
const (
	KeyManaged  = "managed"
	KeyProvider = "provider"
	KeyIconID   = "iconId"
	KeyPath     = "path"
	KeyBaseName = "baseName"
	KeyVariant  = "variant"
	KeySize     = "size"
)

// IdentityFor derives the identity of an indexed icon from its file name. A
// file without a style suffix is an outline icon.
func IdentityFor(iconID string, descriptor domain.IconDescriptor, size int) domain.IconIdentity {
	baseName, variant, _ := fileStyle(descriptor.Path)
	return domain.IconIdentity{
		Provider: descriptor.Provider,
		IconID:   iconID,
		Path:     descriptor.Path,
		BaseName: baseName,
		BaseKey:  naming.FamilyKey(baseName),
		Variant:  variant,
		Size:     size,
	}
}

// fileStyle splits an indexed path into its family base name and style.
// suffixed is false when the style was defaulted to outline.
func fileStyle(path string) (baseName string, variant domain.Variant, suffixed bool) {
	baseName, variant = naming.ExtractIconBaseAndVariant(naming.IconNameFromPath(path))
	if variant == "" {
		return baseName, domain.VariantOutline, false
	}
	return baseName, variant, true
}

// WriteMetadata marks a node as managed and records its identity.
func WriteMetadata(node canvas.Node, identity domain.IconIdentity) {
	size := ""
	if identity.Size > 0 {
		size = strconv.Itoa(identity.Size)
	}
	node.SetPluginData(KeyManaged, "true")
	node.SetPluginData(KeyProvider, string(identity.Provider))
	node.SetPluginData(KeyIconID, identity.IconID)
	node.SetPluginData(KeyPath, identity.Path)
	node.SetPluginData(KeyBaseName, identity.BaseName)
	node.SetPluginData(KeyVariant, string(identity.Variant))
	node.SetPluginData(KeySize, size)
}

// ReadIdentity returns the identity recorded on a managed node.
func ReadIdentity(node canvas.Node) (domain.IconIdentity, bool) {
	if node.PluginData(KeyManaged) != "true" {
		return domain.IconIdentity{}, false
	}
	provider, ok := domain.ParseProviderKind(node.PluginData(KeyProvider))
	iconID := node.PluginData(KeyIconID)
	if !ok || iconID == "" {
		return domain.IconIdentity{}, false
	}

	identity := domain.IconIdentity{
		Provider: provider,
		IconID:   iconID,
		Path:     node.PluginData(KeyPath),
		BaseName: node.PluginData(KeyBaseName),
	}
	if identity.BaseName == "" {
		identity.BaseName, _ = naming.ExtractIconBaseAndVariant(naming.IconNameFromPath(identity.Path))
	}
	identity.BaseKey = naming.FamilyKey(identity.BaseName)
	if variant, ok := domain.ParseVariant(node.PluginData(KeyVariant)); ok {
		identity.Variant = variant
	} else {
		identity.Variant = domain.VariantOutline
	}
	identity.Size, _ = strconv.Atoi(node.PluginData(KeySize))
	return identity, true
}
