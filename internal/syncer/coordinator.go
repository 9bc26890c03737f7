// Package syncer runs provider syncs and discards results that a newer sync
// has superseded.
package syncer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/johanforsgren/iconbridge/internal/cache"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/johanforsgren/iconbridge/internal/state"
	"github.com/johanforsgren/iconbridge/internal/storage"
)

// Outcome is the terminal state of one sync attempt.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeApplied
	OutcomeDiscarded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Coordinator issues a generation token per sync call. Only the attempt
// holding the latest token may mutate state or emit a terminal event.
//
// Publishers are called with the coordinator lock held and must not call
// back into the coordinator.
type Coordinator struct {
	mu      sync.Mutex
	token   uint64
	sources map[domain.ProviderKind]domain.IconSource
	state   *state.State
	cache   *cache.Cache
	configs domain.ConfigRepository
	publish domain.Publisher
}

func NewCoordinator(sources []domain.IconSource, st *state.State, svgCache *cache.Cache, configs domain.ConfigRepository, publish domain.Publisher) *Coordinator {
	byKind := make(map[domain.ProviderKind]domain.IconSource, len(sources))
	for _, source := range sources {
		byKind[source.Kind()] = source
	}
	return &Coordinator{
		sources: byKind,
		state:   st,
		cache:   svgCache,
		configs: configs,
		publish: publish,
	}
}

func (c *Coordinator) Source(kind domain.ProviderKind) (domain.IconSource, bool) {
	source, ok := c.sources[kind]
	return source, ok
}

// Sync fetches the index of a connected provider. The returned error is the
// fetch or persist failure of an attempt that was still current.
func (c *Coordinator) Sync(ctx context.Context, kind domain.ProviderKind, trigger string) (Outcome, error) {
	cfg := c.state.Provider(kind)
	source, ok := c.sources[kind]
	if !ok || !cfg.Connected {
		return OutcomeSkipped, nil
	}

	attemptID := uuid.NewString()

	c.mu.Lock()
	c.token++
	token := c.token
	c.emit(domain.Event{Type: domain.EventFetchStart, Provider: kind, Context: trigger})
	c.mu.Unlock()

	logger.LogSync(string(kind), attemptID, "start token=%d context=%s", token, trigger)

	index, err := source.FetchIndex(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		logger.LogSync(string(kind), attemptID, "discarded token=%d latest=%d", token, c.token)
		return OutcomeDiscarded, nil
	}

	if err == nil {
		err = c.apply(ctx, kind, index)
	}
	if err != nil {
		message := common.ExtractErrorMessage(err)
		logger.LogSync(string(kind), attemptID, "failed: %s", message)
		c.emit(domain.Event{Type: domain.EventFetchFailed, Provider: kind, Context: trigger, Error: message})
		return OutcomeFailed, err
	}

	logger.LogSync(string(kind), attemptID, "applied %d icons", len(index.Icons))
	c.emit(domain.Event{Type: domain.EventFetchSuccess, Provider: kind, Context: trigger})
	return OutcomeApplied, nil
}

// apply persists the merged provider config first, so a failed save leaves
// both the previous index and the cache untouched.
func (c *Coordinator) apply(ctx context.Context, kind domain.ProviderKind, index *domain.IconIndex) error {
	next := c.state.Config()
	merged := storage.ApplyNormalized(kind, next.Provider(kind), index.NormalizedConfig)
	next.Providers[kind] = merged
	if err := c.configs.Save(ctx, next); err != nil {
		return err
	}

	c.state.Update(func(cfg *domain.AppConfig) {
		cfg.Providers[kind] = merged
	})
	c.state.ReplaceIndex(kind, index.Icons, index.Descriptors)
	if removed := c.cache.InvalidateProvider(kind); removed > 0 {
		logger.Log("Dropped %d cached %s icons", removed, kind)
	}
	return nil
}

func (c *Coordinator) emit(event domain.Event) {
	if c.publish == nil {
		return
	}
	event.PublicState = c.state.Snapshot()
	c.publish.Publish(event)
}
