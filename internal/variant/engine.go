// Package variant swaps placed icons to another style or size of the same
// family.
package variant

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/lucasb-eyer/go-colorful"
)

// Catalog exposes the indexed icons of each provider.
type Catalog interface {
	EnsureSelected() domain.ProviderKind
	Descriptors(kind domain.ProviderKind) map[string]domain.IconDescriptor
}

// LoadFunc returns validated SVG markup for an indexed icon.
type LoadFunc func(ctx context.Context, iconID string, descriptor domain.IconDescriptor) (string, error)

type Result struct {
	Replaced  int
	Relabeled int
	Skipped   int
	Missing   []string
	Failed    []string
}

// MissingErr wraps common.ErrVariantMissing with the icons that have no
// member in the requested style, or returns nil.
func (r Result) MissingErr() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w for %d icon(s): %s", common.ErrVariantMissing, len(r.Missing), strings.Join(r.Missing, ", "))
}

type Engine struct {
	doc     canvas.Document
	catalog Catalog
	load    LoadFunc
	tint    colorful.Color
}

func NewEngine(doc canvas.Document, catalog Catalog, load LoadFunc, tint colorful.Color) *Engine {
	return &Engine{doc: doc, catalog: catalog, load: load, tint: tint}
}

type target struct {
	iconID     string
	descriptor domain.IconDescriptor
	variant    domain.Variant
}

// Apply switches every selected icon to the requested variant and size.
// Either may be empty. Nodes that are not icons are left alone.
func (e *Engine) Apply(ctx context.Context, variantValue string, size int) (Result, error) {
	var result Result

	var requested domain.Variant
	if strings.TrimSpace(variantValue) != "" {
		parsed, ok := domain.ParseVariant(variantValue)
		if !ok {
			return result, fmt.Errorf("%w: unknown variant %q", common.ErrInvalidInput, variantValue)
		}
		requested = parsed
	}
	if size < 0 {
		size = 0
	}

	selection := e.doc.Selection()
	if (requested == "" && size == 0) || len(selection) == 0 {
		return result, nil
	}

	selected := e.catalog.EnsureSelected()
	resulting := make([]canvas.Node, 0, len(selection))

	for _, node := range selection {
		identity, ok := e.resolveIdentity(node, selected)
		if !ok {
			result.Skipped++
			resulting = append(resulting, node)
			continue
		}

		desiredVariant := requested
		if desiredVariant == "" {
			desiredVariant = identity.Variant
		}
		currentSize := canvas.NominalSize(node)
		desiredSize := size
		if desiredSize == 0 {
			desiredSize = currentSize
		}
		if desiredSize == 0 {
			desiredSize = identity.Size
		}

		descriptors := e.catalog.Descriptors(identity.Provider)
		next, found := findTarget(descriptors, identity, desiredVariant)
		if !found {
			label := fmt.Sprintf("%s (%s)", naming.FormatIconName(identity.BaseName, ""), desiredVariant)
			result.Missing = append(result.Missing, label)
			resulting = append(resulting, node)
			continue
		}

		if next.iconID == identity.IconID && (desiredSize == 0 || math.Abs(float64(desiredSize-currentSize)) < 1) {
			relabeled := identity
			relabeled.Variant = next.variant
			relabeled.Size = currentSize
			if relabeled.Size == 0 {
				relabeled.Size = identity.Size
			}
			node.SetName(naming.FormatIconName(relabeled.BaseName, relabeled.Variant))
			WriteMetadata(node, relabeled)
			result.Relabeled++
			resulting = append(resulting, node)
			continue
		}

		replacement, err := e.replace(ctx, node, identity, next, desiredSize)
		if err != nil {
			logger.LogError("APPLY_VARIANT", next.descriptor.Path, err)
			result.Failed = append(result.Failed, fmt.Sprintf("%s: %s", naming.FormatIconName(identity.BaseName, next.variant), common.ExtractErrorMessage(err)))
			resulting = append(resulting, node)
			continue
		}
		result.Replaced++
		resulting = append(resulting, replacement)
	}

	e.doc.SetSelection(resulting)
	e.notify(result)
	return result, nil
}

func (e *Engine) replace(ctx context.Context, node canvas.Node, identity domain.IconIdentity, next target, size int) (canvas.Node, error) {
	markup, err := e.load(ctx, next.iconID, next.descriptor)
	if err != nil {
		return nil, err
	}
	replacement, err := e.doc.CreateNodeFromSVG(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSVG, err)
	}

	if size > 0 {
		canvas.ResizeTo(replacement, size)
	}
	canvas.ApplyTint(replacement, e.tint)

	centerX, centerY := canvas.Center(node)
	if parent := node.Parent(); parent != nil {
		parent.InsertChild(canvas.IndexOf(node), replacement)
	}
	replacement.SetProperties(node.Properties())
	canvas.CenterAt(replacement, centerX, centerY)

	updated := IdentityFor(next.iconID, next.descriptor, canvas.NominalSize(replacement))
	updated.BaseName = identity.BaseName
	updated.BaseKey = identity.BaseKey
	updated.Variant = next.variant
	replacement.SetName(naming.FormatIconName(updated.BaseName, updated.Variant))
	WriteMetadata(replacement, updated)

	node.Remove()
	return replacement, nil
}

// resolveIdentity reads the recorded identity of a managed node, otherwise
// matches the node name against the families of the selected provider. A
// name without a style suffix stands for the outline style.
func (e *Engine) resolveIdentity(node canvas.Node, selected domain.ProviderKind) (domain.IconIdentity, bool) {
	if identity, ok := ReadIdentity(node); ok {
		return identity, true
	}
	if selected == "" {
		return domain.IconIdentity{}, false
	}

	baseName, variant := naming.ExtractIconBaseAndVariant(node.Name())
	key := naming.FamilyKey(baseName)
	if key == "" {
		return domain.IconIdentity{}, false
	}
	suffixed := variant != ""
	if !suffixed {
		variant = domain.VariantOutline
	}

	member, ok := familyMember(e.catalog.Descriptors(selected), key, variant, suffixed)
	if !ok {
		return domain.IconIdentity{}, false
	}
	return IdentityFor(member.iconID, member.descriptor, 0), true
}

// findTarget looks for the family member with the wanted variant.
func findTarget(descriptors map[string]domain.IconDescriptor, identity domain.IconIdentity, variant domain.Variant) (target, bool) {
	if variant == identity.Variant {
		if descriptor, ok := descriptors[identity.IconID]; ok {
			return target{iconID: identity.IconID, descriptor: descriptor, variant: variant}, true
		}
	}
	return familyMember(descriptors, identity.BaseKey, variant, true)
}

// familyMember returns the first member of a family, in id order, with the
// wanted style. Members whose suffix state equals preferSuffixed win; the
// others are kept as a tie-break.
func familyMember(descriptors map[string]domain.IconDescriptor, baseKey string, variant domain.Variant, preferSuffixed bool) (target, bool) {
	var fallback *target
	for _, id := range sortedIDs(descriptors) {
		baseName, style, suffixed := fileStyle(descriptors[id].Path)
		if style != variant || naming.FamilyKey(baseName) != baseKey {
			continue
		}
		member := target{iconID: id, descriptor: descriptors[id], variant: variant}
		if suffixed == preferSuffixed {
			return member, true
		}
		if fallback == nil {
			fallback = &member
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return target{}, false
}

func (e *Engine) notify(result Result) {
	if len(result.Missing) > 0 {
		e.doc.Notify(fmt.Sprintf("Variant not found for %d icon(s): %s", len(result.Missing), strings.Join(result.Missing, ", ")))
	}
	if len(result.Failed) > 0 {
		e.doc.Notify(fmt.Sprintf("Failed to update %d icon(s): %s", len(result.Failed), strings.Join(result.Failed, "; ")))
	}
}

func sortedIDs(descriptors map[string]domain.IconDescriptor) []string {
	ids := make([]string, 0, len(descriptors))
	for id := range descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
