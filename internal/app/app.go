// Package app routes UI commands to the sync coordinator, the content cache
// and the variant engine, and publishes the resulting events.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/cache"
	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/johanforsgren/iconbridge/internal/state"
	"github.com/johanforsgren/iconbridge/internal/storage"
	"github.com/johanforsgren/iconbridge/internal/syncer"
	"github.com/johanforsgren/iconbridge/internal/variant"
	"github.com/lucasb-eyer/go-colorful"
)

// User facing notices.
const (
	NoticeChooseIcon      = "Please choose an icon first."
	NoticeInvalidIconID   = "Invalid icon id. Please sync again."
	NoticeUnknownIcon     = "Icon metadata not found. Please sync again."
	NoticeNoProvider      = "No provider is configured."
	noticeErrorPrefix     = "Icon Bridge error: "
	noticeInvalidProvider = "Invalid provider."
	noticeNotConfigured   = "Provider is not configured yet."
)

// Sync trigger contexts reported on fetch events.
const (
	ContextStartup        = "startup"
	ContextSaveProvider   = "save-provider"
	ContextSelectProvider = "select-provider"
	ContextRetrySync      = "retry-sync"
)

var (
	errInvalidProvider = errors.New(noticeInvalidProvider)
	errNotConfigured   = errors.New(noticeNotConfigured)
	errUnknownIcon     = errors.New(NoticeUnknownIcon)
	errInvalidIconID   = errors.New(NoticeInvalidIconID)
)

type Options struct {
	PreviewWorkers int
	PreviewLimit   int
	Tint           colorful.Color
}

func DefaultOptions() Options {
	tint, _ := canvas.ParseColor("#0A84FF")
	return Options{PreviewWorkers: 8, PreviewLimit: 24, Tint: tint}
}

type App struct {
	state       *state.State
	configs     domain.ConfigRepository
	cache       *cache.Cache
	coordinator *syncer.Coordinator
	engine      *variant.Engine
	doc         canvas.Document
	publish     domain.Publisher
	opts        Options
}

func New(initial domain.AppConfig, sources []domain.IconSource, configs domain.ConfigRepository, doc canvas.Document, publish domain.Publisher, opts Options) *App {
	defaults := DefaultOptions()
	if opts.PreviewWorkers < 1 {
		opts.PreviewWorkers = defaults.PreviewWorkers
	}
	if opts.PreviewLimit < 1 {
		opts.PreviewLimit = defaults.PreviewLimit
	}
	if publish == nil {
		publish = domain.PublisherFunc(func(domain.Event) {})
	}

	for _, cfg := range initial.Providers {
		logger.AddSecret(cfg.PAT)
	}

	a := &App{
		state:   state.New(initial),
		configs: configs,
		cache:   cache.New(),
		doc:     doc,
		publish: publish,
		opts:    opts,
	}
	a.coordinator = syncer.NewCoordinator(sources, a.state, a.cache, configs, publish)
	a.engine = variant.NewEngine(doc, a.state, a.LoadIcon, opts.Tint)
	return a
}

func (a *App) State() *state.State {
	return a.state
}

func (a *App) Snapshot() domain.PublicState {
	return a.state.Snapshot()
}

// Handle runs one command. Failures are reported to the document as a
// notice and returned.
func (a *App) Handle(ctx context.Context, cmd domain.Command) error {
	err := a.dispatch(ctx, cmd)
	if err != nil {
		logger.LogError("COMMAND", string(cmd.Type), err)
		a.doc.Notify(noticeErrorPrefix + common.ExtractErrorMessage(err))
	}
	return err
}

func (a *App) dispatch(ctx context.Context, cmd domain.Command) error {
	switch cmd.Type {
	case domain.CommandUIReady:
		return a.handleUIReady(ctx)
	case domain.CommandSaveProvider:
		return a.handleSaveProvider(ctx, cmd)
	case domain.CommandSelectProvider:
		return a.handleSelectProvider(ctx, cmd)
	case domain.CommandRetrySync:
		return a.handleRetrySync(ctx)
	case domain.CommandInsertIcon:
		a.handleInsertIcon(ctx, cmd)
		return nil
	case domain.CommandApplyVariant:
		result, err := a.engine.Apply(ctx, cmd.Variant, cmd.Size)
		if missing := result.MissingErr(); missing != nil {
			logger.LogError("APPLY_VARIANT", cmd.Variant, missing)
		}
		return err
	case domain.CommandFetchPreviews:
		a.FetchPreviews(ctx, cmd.IconIDs)
		return nil
	case domain.CommandSearchIcons:
		a.emit(domain.Event{Type: domain.EventSearchResults, Results: a.Search(cmd.Query)})
		return nil
	default:
		logger.Log("Ignoring unknown command %q", cmd.Type)
		return nil
	}
}

func (a *App) handleUIReady(ctx context.Context) error {
	selected := a.state.EnsureSelected()
	if err := a.persist(ctx); err != nil {
		return err
	}
	a.hydrate()
	a.Sync(ctx, selected, ContextStartup)
	return nil
}

func (a *App) handleSaveProvider(ctx context.Context, cmd domain.Command) error {
	kind, ok := domain.ParseProviderKind(cmd.Provider)
	if !ok {
		return errInvalidProvider
	}

	cfg := a.state.Update(func(cfg *domain.AppConfig) {
		cfg.Providers[kind] = storage.MergeProviderConfig(kind, cfg.Provider(kind), cmd.Values)
		if cmd.SetSelectedProvider || cfg.SelectedProvider == "" {
			cfg.SelectedProvider = kind
		}
	})
	logger.AddSecret(cfg.Provider(kind).PAT)
	logger.Log("Saved %s provider settings", kind.DisplayName())

	if err := a.persist(ctx); err != nil {
		return err
	}
	a.hydrate()
	if cfg.SelectedProvider == kind {
		a.Sync(ctx, kind, ContextSaveProvider)
	}
	return nil
}

func (a *App) handleSelectProvider(ctx context.Context, cmd domain.Command) error {
	kind, ok := domain.ParseProviderKind(cmd.Provider)
	if !ok {
		return errInvalidProvider
	}
	if !a.state.Provider(kind).Connected {
		return errNotConfigured
	}

	a.state.Update(func(cfg *domain.AppConfig) {
		cfg.SelectedProvider = kind
	})
	if err := a.persist(ctx); err != nil {
		return err
	}
	a.hydrate()
	a.Sync(ctx, kind, ContextSelectProvider)
	return nil
}

func (a *App) handleRetrySync(ctx context.Context) error {
	selected := a.state.EnsureSelected()
	if err := a.persist(ctx); err != nil {
		return err
	}
	a.hydrate()

	if selected == "" {
		a.emit(domain.Event{Type: domain.EventFetchFailed, Context: ContextRetrySync, Error: NoticeNoProvider})
		return nil
	}
	a.Sync(ctx, selected, ContextRetrySync)
	return nil
}

// Sync runs one sync attempt. Its outcome is also published as events.
func (a *App) Sync(ctx context.Context, kind domain.ProviderKind, trigger string) (syncer.Outcome, error) {
	return a.coordinator.Sync(ctx, kind, trigger)
}

// LoadIcon returns the SVG markup of an indexed icon, from the cache when
// possible.
func (a *App) LoadIcon(ctx context.Context, iconID string, descriptor domain.IconDescriptor) (string, error) {
	source, ok := a.coordinator.Source(descriptor.Provider)
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrProviderNotConfigured, descriptor.Provider)
	}
	cfg := a.state.Provider(descriptor.Provider)
	return a.cache.GetOrFetch(ctx, iconID, descriptor, func(ctx context.Context, descriptor domain.IconDescriptor) (string, error) {
		return source.FetchFileText(ctx, cfg, descriptor)
	})
}

// Lookup resolves an icon id to its descriptor.
func (a *App) Lookup(iconID string) (domain.IconDescriptor, error) {
	iconID = naming.NormalizeString(iconID)
	kind, ok := domain.ProviderFromIconID(iconID)
	if !ok {
		return domain.IconDescriptor{}, errInvalidIconID
	}
	descriptor, ok := a.state.Descriptor(kind, iconID)
	if !ok {
		return domain.IconDescriptor{}, errUnknownIcon
	}
	return descriptor, nil
}

func (a *App) persist(ctx context.Context) error {
	return a.configs.Save(ctx, a.state.Config())
}

func (a *App) hydrate() {
	a.emit(domain.Event{Type: domain.EventStateHydrate})
}

func (a *App) emit(event domain.Event) {
	event.PublicState = a.state.Snapshot()
	a.publish.Publish(event)
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
