package app

import (
	"context"

	"github.com/johanforsgren/iconbridge/internal/canvas"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/johanforsgren/iconbridge/internal/naming"
	"github.com/johanforsgren/iconbridge/internal/provider/common"
	"github.com/johanforsgren/iconbridge/internal/variant"
)

// handleInsertIcon places an icon at the viewport centre. Every outcome is
// reported as a notice.
func (a *App) handleInsertIcon(ctx context.Context, cmd domain.Command) {
	iconID := naming.NormalizeString(cmd.IconID)
	if iconID == "" {
		a.doc.Notify(NoticeChooseIcon)
		return
	}
	descriptor, err := a.Lookup(iconID)
	if err != nil {
		a.doc.Notify(err.Error())
		return
	}

	node, err := a.InsertIcon(ctx, iconID, descriptor, cmd.Title, cmd.Name, cmd.Size)
	if err != nil {
		logger.LogError("INSERT_ICON", descriptor.Path, err)
		a.doc.Notify("Failed to insert icon: " + common.ExtractErrorMessage(err))
		return
	}
	a.doc.Notify("Inserted " + node.Name())
}

// InsertIcon creates a tinted node for an indexed icon, centres it on the
// viewport, selects it and records its identity.
func (a *App) InsertIcon(ctx context.Context, iconID string, descriptor domain.IconDescriptor, title, name string, size int) (canvas.Node, error) {
	markup, err := a.LoadIcon(ctx, iconID, descriptor)
	if err != nil {
		return nil, err
	}
	node, err := a.doc.CreateNodeFromSVG(markup)
	if err != nil {
		return nil, err
	}

	canvas.ApplyTint(node, a.opts.Tint)
	if size > 0 {
		canvas.ResizeTo(node, size)
	}

	label := naming.NormalizeString(title)
	if label == "" {
		label = naming.NormalizeString(name)
	}
	if label == "" {
		label = naming.IconNameFromPath(descriptor.Path)
	}
	node.SetName(label)

	x, y := a.doc.ViewportCenter()
	canvas.CenterAt(node, x, y)
	if node.Parent() == nil {
		a.doc.CurrentPage().AppendChild(node)
	}
	a.doc.SetSelection([]canvas.Node{node})

	variant.WriteMetadata(node, variant.IdentityFor(iconID, descriptor, canvas.NominalSize(node)))
	logger.Log("Inserted %s at %.0f,%.0f", iconID, x, y)
	return node, nil
}
