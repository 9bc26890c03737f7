package naming

import (
	"regexp"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	baseVariantRegex  = regexp.MustCompile(`(?i)^(.*?)[_\-\s]?(outlined|outline|filled|fill|bulk)$`)
	separatorRunRegex = regexp.MustCompile(`[_-]+`)
	camelRegex        = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	kebabJunkRegex    = regexp.MustCompile(`[_\s-]+`)
)

const fallbackLabel = "Icon"

// HumanizeIconLabel turns a file name such as "IconArrowLeft-outline.svg" into
// "Arrow Left".
func HumanizeIconLabel(value string) string {
	raw := TrimSVGExtension(NormalizeString(value))
	if raw == "" {
		return fallbackLabel
	}

	label := StripStyleSuffix(StripIconPrefix(raw))
	label = separatorRunRegex.ReplaceAllString(label, " ")
	label = camelRegex.ReplaceAllString(label, "$1 $2")
	label = strings.TrimSpace(whitespaceRegex.ReplaceAllString(label, " "))
	if label == "" {
		return raw
	}
	return label
}

// ExtractIconBaseAndVariant splits "home-filled" into ("home", fill). The
// variant is empty when the name carries no recognised style suffix.
func ExtractIconBaseAndVariant(value string) (string, domain.Variant) {
	raw := TrimSVGExtension(NormalizeString(value))
	matches := baseVariantRegex.FindStringSubmatch(raw)
	if matches == nil || strings.TrimSpace(matches[1]) == "" {
		return raw, ""
	}
	variant, _ := domain.ParseVariant(matches[2])
	return strings.TrimSpace(matches[1]), variant
}

// FormatIconName builds the kebab-case node name for a family and variant.
func FormatIconName(baseName string, variant domain.Variant) string {
	base := kebabCase(baseName)
	switch {
	case variant == "":
		return base
	case base == "":
		return string(variant)
	default:
		return base + "-" + string(variant)
	}
}

func kebabCase(value string) string {
	value = camelRegex.ReplaceAllString(NormalizeString(value), "$1-$2")
	value = kebabJunkRegex.ReplaceAllString(value, "-")
	return strings.ToLower(strings.Trim(value, "-"))
}

func IconNameFromPath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	fileName := normalized[strings.LastIndex(normalized, "/")+1:]
	if name := TrimSVGExtension(fileName); name != "" {
		return name
	}
	return fallbackLabel
}

func IsSVGPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".svg")
}

// HasIconsSegment reports whether a directory named "icons" (any case) appears
// in the path.
func HasIconsSegment(path string) bool {
	segments := strings.Split(strings.ReplaceAll(path, "\\", "/"), "/")
	for _, segment := range segments[:len(segments)-1] {
		if strings.EqualFold(segment, "icons") {
			return true
		}
	}
	return false
}

// NewLabelCollator compares labels ignoring case and diacritics. Collators are
// not safe for concurrent use; create one per sort.
func NewLabelCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
}
