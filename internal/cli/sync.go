package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/spf13/cobra"
)

// newSyncCmd creates the `sync` command.
// Usage: iconbridge sync [github|azure]
func newSyncCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [provider]",
		Short: "Fetch the icon index of the selected (or given) provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind domain.ProviderKind
			if len(args) == 1 {
				var err error
				if kind, err = parseProvider(args[0]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			rt, err := newRuntime(cmd.Context(), flags, eventPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer logger.Close()
			return runSyncWith(cmd.Context(), rt, out, kind)
		},
	}
}

// runSyncWith is the testable core of the sync command.
func runSyncWith(ctx context.Context, rt *runtime, out io.Writer, kind domain.ProviderKind) error {
	kind, err := rt.syncProvider(ctx, kind)
	if err != nil {
		return err
	}

	icons := rt.app.State().Icons(kind)
	fmt.Fprintf(out, "📦 %s: %d icon(s)\n", kind.DisplayName(), len(icons))
	return nil
}
