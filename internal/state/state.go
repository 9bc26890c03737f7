// Package state holds the runtime state shared by the sync coordinator, the
// orchestrator and the variant engine.
package state

import (
	"sync"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/storage"
)

// State owns the current config and the per-provider icon listings.
type State struct {
	mu          sync.RWMutex
	config      domain.AppConfig
	icons       map[domain.ProviderKind][]domain.IconSummary
	descriptors map[domain.ProviderKind]map[string]domain.IconDescriptor
}

func New(cfg domain.AppConfig) *State {
	s := &State{
		config:      cfg.Clone(),
		icons:       make(map[domain.ProviderKind][]domain.IconSummary),
		descriptors: make(map[domain.ProviderKind]map[string]domain.IconDescriptor),
	}
	for _, kind := range domain.ProviderKinds {
		if _, ok := s.config.Providers[kind]; !ok {
			s.config.Providers[kind] = storage.NormalizeProviderConfig(kind, nil)
		}
		s.descriptors[kind] = make(map[string]domain.IconDescriptor)
	}
	return s
}

func (s *State) Config() domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

func (s *State) Provider(kind domain.ProviderKind) domain.ProviderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Provider(kind)
}

// Update mutates the config under the write lock, reconciles the selection
// and returns a copy of the result.
func (s *State) Update(fn func(cfg *domain.AppConfig)) domain.AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.config)
	storage.EnsureSelectedProvider(&s.config)
	return s.config.Clone()
}

// EnsureSelected reconciles the selection and returns it.
func (s *State) EnsureSelected() domain.ProviderKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.EnsureSelectedProvider(&s.config)
}

// ReplaceIndex swaps the icon list and descriptor map of a provider.
func (s *State) ReplaceIndex(kind domain.ProviderKind, icons []domain.IconSummary, descriptors map[string]domain.IconDescriptor) {
	listed := append([]domain.IconSummary(nil), icons...)
	byID := make(map[string]domain.IconDescriptor, len(descriptors))
	for id, descriptor := range descriptors {
		byID[id] = descriptor
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.icons[kind] = listed
	s.descriptors[kind] = byID
}

func (s *State) Icons(kind domain.ProviderKind) []domain.IconSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.IconSummary(nil), s.icons[kind]...)
}

func (s *State) Descriptor(kind domain.ProviderKind, iconID string) (domain.IconDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	descriptor, ok := s.descriptors[kind][iconID]
	return descriptor, ok
}

// Descriptors returns a copy of a provider's descriptor map.
func (s *State) Descriptors(kind domain.ProviderKind) map[string]domain.IconDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.IconDescriptor, len(s.descriptors[kind]))
	for id, descriptor := range s.descriptors[kind] {
		out[id] = descriptor
	}
	return out
}

// Snapshot reconciles the selection and returns the state the UI sees.
func (s *State) Snapshot() domain.PublicState {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := storage.EnsureSelectedProvider(&s.config)
	snapshot := domain.PublicState{
		SelectedProvider: selected,
		Providers:        s.config.Clone().Providers,
		Icons:            []domain.IconSummary{},
	}
	if selected != "" {
		snapshot.Icons = append(snapshot.Icons, s.icons[selected]...)
	}
	return snapshot
}
