package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/johanforsgren/iconbridge/internal/app"
	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/provider/azuredevops"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/johanforsgren/iconbridge/internal/provider/github"
	"github.com/johanforsgren/iconbridge/internal/settings"
	"github.com/johanforsgren/iconbridge/internal/storage"
)

// cliTrigger is the sync context reported for syncs started from a
// subcommand.
const cliTrigger = "cli"

type runtime struct {
	settings *settings.Settings
	configs  *storage.ConfigStore
	doc      *canvas.Memory
	app      *app.App
}

func loadSettings(flags *globalFlags) (*settings.Settings, error) {
	path := flags.settingsPath
	if path == "" {
		var err error
		if path, err = settings.DefaultPath(); err != nil {
			return nil, err
		}
	}
	s, err := settings.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if flags.storePath != "" {
		s.StorePath = flags.storePath
	}
	if flags.logFile != "" {
		s.LogFile = flags.logFile
	}
	return s, nil
}

// newRuntime wires settings, logging, the config store, both providers and
// an in-memory canvas into an App.
func newRuntime(ctx context.Context, flags *globalFlags, publish domain.Publisher) (*runtime, error) {
	s, err := loadSettings(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(s.LogFile); err != nil {
		return nil, err
	}

	storePath := s.StorePath
	if storePath == "" {
		if storePath, err = storage.DefaultStorePath(); err != nil {
			return nil, err
		}
	}
	store, err := storage.NewLocalStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}
	configs := storage.NewConfigStore(store)
	cfg, err := configs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sources := []domain.IconSource{
		github.NewProvider(s.GitHubBaseURL),
		azuredevops.NewProvider(),
	}
	doc := canvas.NewMemory()
	core := app.New(cfg, sources, configs, doc, publish, app.Options{
		PreviewWorkers: s.PreviewWorkers,
		PreviewLimit:   s.PreviewLimit,
		Tint:           s.Tint(),
	})

	logger.Log("Icon Bridge %s started, store %s", version, store.Path())
	return &runtime{settings: s, configs: configs, doc: doc, app: core}, nil
}

// syncProvider syncs kind, or the selected provider when kind is empty, and
// reports a failed attempt as an error.
func (rt *runtime) syncProvider(ctx context.Context, kind domain.ProviderKind) (domain.ProviderKind, error) {
	if kind == "" {
		kind = rt.app.State().EnsureSelected()
	}
	if kind == "" {
		return "", fmt.Errorf("%w: run `iconbridge configure github` or `iconbridge configure azure` first", common.ErrProviderNotConfigured)
	}
	if !rt.app.State().Provider(kind).Connected {
		return "", fmt.Errorf("%w: %s", common.ErrProviderNotConfigured, kind.DisplayName())
	}
	if _, err := rt.app.Sync(ctx, kind, cliTrigger); err != nil {
		return "", fmt.Errorf("syncing %s: %s", kind.DisplayName(), common.ExtractErrorMessage(err))
	}
	return kind, nil
}

// eventPrinter reports sync progress on w.
func eventPrinter(w io.Writer) domain.Publisher {
	return domain.PublisherFunc(func(event domain.Event) {
		switch event.Type {
		case domain.EventFetchStart:
			fmt.Fprintf(w, "🔄 Syncing %s...\n", event.Provider.DisplayName())
		case domain.EventFetchSuccess:
			fmt.Fprintf(w, "✅ Synced %s\n", event.Provider.DisplayName())
		case domain.EventFetchFailed:
			fmt.Fprintf(w, "❌ %s\n", event.Error)
		}
	})
}

func parseProvider(value string) (domain.ProviderKind, error) {
	kind, ok := domain.ParseProviderKind(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown provider %q (want github or azure)", common.ErrInvalidInput, value)
	}
	return kind, nil
}
