package app

import (
	"context"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"golang.org/x/sync/errgroup"
)

// FetchPreviews loads the markup of up to PreviewLimit distinct icons with at
// most PreviewWorkers requests in flight. Each icon reports on its own and a
// final event lists the requested ids.
func (a *App) FetchPreviews(ctx context.Context, iconIDs []string) []string {
	requested := a.previewIDs(iconIDs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.PreviewWorkers)
	for _, iconID := range requested {
		g.Go(func() error {
			markup, err := a.preview(gctx, iconID)
			if err != nil {
				a.emit(domain.Event{Type: domain.EventIconPreviewFailed, IconID: iconID, Error: common.ExtractErrorMessage(err)})
				return nil
			}
			a.emit(domain.Event{Type: domain.EventIconPreview, IconID: iconID, SVGMarkup: markup})
			return nil
		})
	}
	_ = g.Wait()

	a.emit(domain.Event{Type: domain.EventPreviewsComplete, RequestedIDs: requested})
	return requested
}

func (a *App) preview(ctx context.Context, iconID string) (string, error) {
	descriptor, err := a.Lookup(iconID)
	if err != nil {
		return "", err
	}
	return a.LoadIcon(ctx, iconID, descriptor)
}

func (a *App) previewIDs(iconIDs []string) []string {
	seen := make(map[string]bool, len(iconIDs))
	requested := make([]string, 0, a.opts.PreviewLimit)
	for _, iconID := range trimmed(iconIDs) {
		if seen[iconID] {
			continue
		}
		seen[iconID] = true
		requested = append(requested, iconID)
		if len(requested) == a.opts.PreviewLimit {
			break
		}
	}
	return requested
}
