// Package cache keeps fetched SVG markup per icon id for the session.
package cache

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"golang.org/x/sync/singleflight"
)

var svgRootRegex = regexp.MustCompile(`(?i)<svg[\s>]`)

// FetchFunc fetches the raw file text a descriptor points at.
type FetchFunc func(ctx context.Context, descriptor domain.IconDescriptor) (string, error)

// Cache is unbounded. Entries of a provider are dropped together when that
// provider is re-synced.
type Cache struct {
	mu          sync.RWMutex
	entries     map[string]string
	generations map[domain.ProviderKind]uint64
	group       singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries:     make(map[string]string),
		generations: make(map[domain.ProviderKind]uint64),
	}
}

func (c *Cache) Get(iconID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	markup, ok := c.entries[iconID]
	return markup, ok
}

func (c *Cache) Put(iconID, markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[iconID] = markup
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// InvalidateProvider removes every entry whose id starts with "{kind}:" and
// returns how many were removed.
func (c *Cache) InvalidateProvider(kind domain.ProviderKind) int {
	prefix := string(kind) + ":"

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generations[kind]++
	removed := 0
	for id := range c.entries {
		if strings.HasPrefix(id, prefix) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// GetOrFetch returns cached markup or fetches, validates and stores it.
// Concurrent requests for the same id share one fetch. A result that arrives
// after its provider was invalidated is returned but not stored.
func (c *Cache) GetOrFetch(ctx context.Context, iconID string, descriptor domain.IconDescriptor, fetch FetchFunc) (string, error) {
	if markup, ok := c.Get(iconID); ok {
		return markup, nil
	}

	c.mu.RLock()
	generation := c.generations[descriptor.Provider]
	c.mu.RUnlock()

	// The fetch is shared by every caller that joins it and ignores the
	// cancellation of the one that started it.
	shared := context.WithoutCancel(ctx)
	value, err, _ := c.group.Do(iconID, func() (interface{}, error) {
		text, err := fetch(shared, descriptor)
		if err != nil {
			return "", err
		}
		markup, err := NormalizeSVGMarkup(text)
		if err != nil {
			return "", fmt.Errorf("%w: %s", err, descriptor.Path)
		}

		c.mu.Lock()
		if c.generations[descriptor.Provider] == generation {
			c.entries[iconID] = markup
		}
		c.mu.Unlock()
		return markup, nil
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// NormalizeSVGMarkup trims markup and checks that it has an <svg> root tag.
func NormalizeSVGMarkup(markup string) (string, error) {
	value := naming.NormalizeString(markup)
	if value == "" || !svgRootRegex.MatchString(value) {
		return "", common.ErrInvalidSVG
	}
	return value, nil
}
