package app

import (
	"strings"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/sahilm/fuzzy"
)

type iconSource []domain.IconSummary

func (s iconSource) String(i int) string {
	icon := s[i]
	return strings.Join([]string{icon.DisplayLabel(), icon.Name, icon.Tag}, " ")
}

func (s iconSource) Len() int {
	return len(s)
}

// Search fuzzy matches the query against the selected provider's icons. An
// empty query returns the full listing in its sorted order.
func (a *App) Search(query string) []domain.IconSummary {
	icons := a.state.Snapshot().Icons
	query = strings.TrimSpace(query)
	if query == "" {
		return icons
	}

	matches := fuzzy.FindFrom(query, iconSource(icons))
	results := make([]domain.IconSummary, 0, len(matches))
	for _, match := range matches {
		results = append(results, icons[match.Index])
	}
	return results
}
