package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/spf13/cobra"
)

// newSearchCmd creates the `search` command.
// Usage: iconbridge search home arrow
func newSearchCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Sync the selected provider and search its icons",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), flags, eventPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer logger.Close()
			return runSearchWith(cmd.Context(), rt, cmd.OutOrStdout(), strings.Join(args, " "), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results (0 for all)")
	return cmd
}

// runSearchWith is the testable core of the search command.
func runSearchWith(ctx context.Context, rt *runtime, out io.Writer, query string, limit int) error {
	if _, err := rt.syncProvider(ctx, ""); err != nil {
		return err
	}

	results := rt.app.Search(query)
	if len(results) == 0 {
		fmt.Fprintf(out, "No icons match %q.\n", query)
		return nil
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for _, icon := range results {
		line := fmt.Sprintf("%-48s %s", icon.ID, icon.DisplayLabel())
		if icon.Tag != "" {
			line += " [" + icon.Tag + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
