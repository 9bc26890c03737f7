// Package metadata reads the optional Icons.json sidecar of an icon
// repository and resolves display names, titles and tags for icon files.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
)

var trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

var (
	containerKeys = []string{"icons", "value", "items", "data", "Icon", "Icons"}
	nameKeys      = []string{"name", "iconName"}
	titleKeys     = []string{"title", "displayName", "label"}
	tagKeys       = []string{"tag", "tags", "keyword"}
)

// FetchFunc returns the text of a repository file.
type FetchFunc func(ctx context.Context, path string) (string, error)

// Lookup maps normalized name variants to metadata records.
type Lookup struct {
	byKey map[string]domain.IconMetadata
}

func (l Lookup) Len() int {
	return len(l.byKey)
}

// Find tries every lookup key variant of name in order and returns the first
// record found.
func (l Lookup) Find(name string) (domain.IconMetadata, bool) {
	for _, key := range naming.IconLookupKeyVariants(name) {
		if record, ok := l.byKey[key]; ok {
			return record, true
		}
	}
	return domain.IconMetadata{}, false
}

func (l *Lookup) add(value string, record domain.IconMetadata) {
	for _, key := range naming.IconLookupKeyVariants(value) {
		if _, exists := l.byKey[key]; !exists {
			l.byKey[key] = record
		}
	}
}

// Candidates lists the sidecar paths tried, in order.
func Candidates(kind domain.ProviderKind) []string {
	paths := []string{"Icons.json", "icons.json", "Icons/Icons.json", "icons/icons.json"}
	if kind == domain.ProviderAzure {
		for i, path := range paths {
			paths[i] = "/" + path
		}
	}
	return paths
}

// Load returns the lookup of the first candidate that can be fetched and
// parsed. A missing or broken sidecar yields an empty lookup.
func Load(ctx context.Context, kind domain.ProviderKind, fetch FetchFunc) Lookup {
	for _, path := range Candidates(kind) {
		if ctx.Err() != nil {
			break
		}
		text, err := fetch(ctx, path)
		if err != nil {
			logger.Log("Metadata: %s %s not available: %s", kind, path, common.ExtractErrorMessage(err))
			continue
		}
		lookup, err := Parse(text)
		if err != nil {
			logger.LogError("PARSE_METADATA", path, err)
			continue
		}
		logger.Log("Metadata: loaded %d keys from %s %s", lookup.Len(), kind, path)
		return lookup
	}
	return Lookup{byKey: map[string]domain.IconMetadata{}}
}

// Parse reads sidecar JSON. Trailing commas before a closing bracket are
// tolerated.
func Parse(text string) (Lookup, error) {
	lookup := Lookup{byKey: map[string]domain.IconMetadata{}}

	trimmed := naming.NormalizeString(strings.TrimPrefix(text, "\uFEFF"))
	if trimmed == "" {
		return lookup, nil
	}

	data := []byte(trimmed)
	if !json.Valid(data) {
		data = trailingCommaRegex.ReplaceAll(data, []byte("$1"))
		if !json.Valid(data) {
			return Lookup{}, common.ErrInvalidMetadata
		}
	}

	rows, err := extractRows(data)
	if err != nil {
		return Lookup{}, fmt.Errorf("%w: %v", common.ErrInvalidMetadata, err)
	}

	for _, row := range rows {
		rawName := naming.NormalizeString(readRowValue(row, nameKeys))
		rawTitle := naming.NormalizeString(readRowValue(row, titleKeys))
		rawTag := naming.NormalizeString(readRowValue(row, tagKeys))
		if rawName == "" && rawTitle == "" {
			continue
		}

		record := domain.IconMetadata{
			Name:  firstNonEmpty(rawName, rawTitle),
			Title: firstNonEmpty(rawTitle, rawName),
			Tag:   rawTag,
		}
		lookup.add(rawName, record)
		lookup.add(rawTitle, record)
	}

	return lookup, nil
}

type field struct {
	key   string
	value json.RawMessage
}

// extractRows accepts a top level array, an array under one of the container
// keys, or else the first property holding a non-empty array of objects.
func extractRows(data []byte) ([]map[string]any, error) {
	switch data[0] {
	case '[':
		return decodeRows(data), nil
	case '{':
	default:
		return nil, nil
	}

	fields, err := objectFields(data)
	if err != nil {
		return nil, err
	}

	for _, key := range containerKeys {
		for _, f := range fields {
			if f.key == key && isArray(f.value) {
				return decodeRows(f.value), nil
			}
		}
	}

	for _, f := range fields {
		if !isArray(f.value) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(f.value, &items); err != nil || len(items) == 0 {
			continue
		}
		if first := bytes.TrimSpace(items[0]); len(first) > 0 && first[0] == '{' {
			return decodeRows(f.value), nil
		}
	}
	return nil, nil
}

// objectFields decodes the top level properties of a JSON object keeping
// their document order.
func objectFields(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []field
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", token)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}
	return fields, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeRows keeps the object elements of an array and drops everything else.
func decodeRows(data []byte) []map[string]any {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		var row map[string]any
		if err := json.Unmarshal(item, &row); err != nil || row == nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// readRowValue returns the first synonym present in row, matching keys
// case-insensitively. An exact key match wins over a case-folded one.
func readRowValue(row map[string]any, keys []string) string {
	for _, key := range keys {
		if value, ok := row[key]; ok {
			return stringify(value)
		}
		for rowKey, value := range row {
			if strings.EqualFold(rowKey, key) {
				return stringify(value)
			}
		}
	}
	return ""
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return "Icon"
}
