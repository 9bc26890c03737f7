// Package naming derives lookup keys, display labels and variant families from
// icon file names.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	svgExtensionRegex = regexp.MustCompile(`(?i)\.svg$`)
	styleSuffixRegex  = regexp.MustCompile(`(?i)[_\-\s]?(outlined|outline|filled|fill|bulk)$`)
	nonAlnumRegex     = regexp.MustCompile(`[^a-z0-9]+`)
)

const iconPrefix = "icon"

func NormalizeString(value string) string {
	return strings.TrimSpace(value)
}

func TrimSVGExtension(value string) string {
	return svgExtensionRegex.ReplaceAllString(value, "")
}

// NormalizeLookupKey lowercases, folds diacritics and keeps only [a-z0-9].
func NormalizeLookupKey(value string) string {
	raw := strings.ToLower(TrimSVGExtension(NormalizeString(value)))
	if raw == "" {
		return ""
	}
	return nonAlnumRegex.ReplaceAllString(foldDiacritics(raw), "")
}

func foldDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return folded
}

// StripIconPrefix removes a leading "icon" word. The prefix only counts as a
// word when followed by an upper-case letter, a digit or a separator.
func StripIconPrefix(value string) string {
	value = NormalizeString(value)
	if len(value) <= len(iconPrefix) || !strings.EqualFold(value[:len(iconPrefix)], iconPrefix) {
		return value
	}
	next, _ := utf8.DecodeRuneInString(value[len(iconPrefix):])
	if unicode.IsUpper(next) || unicode.IsDigit(next) || next == '_' || next == ' ' || next == '-' {
		return value[len(iconPrefix):]
	}
	return value
}

// StripStyleSuffix removes a trailing outline/fill/bulk style marker.
func StripStyleSuffix(value string) string {
	return styleSuffixRegex.ReplaceAllString(NormalizeString(value), "")
}

// IconLookupKeyVariants returns the ordered, de-duplicated keys under which an
// icon name is looked up: raw, without prefix, without suffix, without both.
func IconLookupKeyVariants(value string) []string {
	raw := TrimSVGExtension(NormalizeString(value))
	if raw == "" {
		return nil
	}

	candidates := []string{
		NormalizeLookupKey(raw),
		NormalizeLookupKey(StripIconPrefix(raw)),
		NormalizeLookupKey(StripStyleSuffix(raw)),
		NormalizeLookupKey(StripStyleSuffix(StripIconPrefix(raw))),
	}

	keys := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, key := range candidates {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// FamilyKey is the comparison key of an icon family base name.
func FamilyKey(baseName string) string {
	return NormalizeLookupKey(StripIconPrefix(baseName))
}
