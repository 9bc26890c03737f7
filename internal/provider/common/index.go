package common

import (
	"fmt"
	"slices"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/naming"
)

// RemoteFile is one file entry of a provider listing.
type RemoteFile struct {
	Path string
	SHA  string
}

// MetadataFinder looks up sidecar metadata for a file name.
type MetadataFinder func(fileName string) (domain.IconMetadata, bool)

// DescriptorFunc builds the provider specific descriptor for a listed file.
type DescriptorFunc func(file RemoteFile) domain.IconDescriptor

// SelectIconFiles keeps the SVG files below an "icons" directory. When there
// are none, every SVG file of the listing is used instead.
func SelectIconFiles(kind domain.ProviderKind, files []RemoteFile) ([]RemoteFile, error) {
	var svgFiles, iconFiles []RemoteFile
	for _, file := range files {
		if !naming.IsSVGPath(file.Path) {
			continue
		}
		svgFiles = append(svgFiles, file)
		if naming.HasIconsSegment(file.Path) {
			iconFiles = append(iconFiles, file)
		}
	}

	if len(iconFiles) > 0 {
		return iconFiles, nil
	}
	if len(svgFiles) > 0 {
		return svgFiles, nil
	}
	return nil, fmt.Errorf("%w in the %s repository", ErrNoIconsFound, kind.DisplayName())
}

// BuildIndex turns the selected files into icon summaries and descriptors,
// sorted by display label.
func BuildIndex(kind domain.ProviderKind, files []RemoteFile, find MetadataFinder, describe DescriptorFunc) *domain.IconIndex {
	index := &domain.IconIndex{
		Icons:       make([]domain.IconSummary, 0, len(files)),
		Descriptors: make(map[string]domain.IconDescriptor, len(files)),
	}

	for _, file := range files {
		fileName := naming.IconNameFromPath(file.Path)

		var meta domain.IconMetadata
		if find != nil {
			meta, _ = find(fileName)
		}

		summary := domain.IconSummary{
			ID:    domain.IconID(kind, file.Path),
			Path:  file.Path,
			Name:  fileName,
			Title: naming.HumanizeIconLabel(fileName),
			Tag:   meta.Tag,
		}
		if meta.Name != "" {
			summary.Name = meta.Name
		}
		if meta.Title != "" {
			summary.Title = meta.Title
		}

		index.Icons = append(index.Icons, summary)
		index.Descriptors[summary.ID] = describe(file)
	}

	SortIcons(index.Icons)
	return index
}

// SortIcons orders icons by display label ignoring case and diacritics. Ties
// keep the listing order.
func SortIcons(icons []domain.IconSummary) {
	collator := naming.NewLabelCollator()
	slices.SortStableFunc(icons, func(a, b domain.IconSummary) int {
		return collator.CompareString(a.DisplayLabel(), b.DisplayLabel())
	})
}
