package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/johanforsgren/iconbridge/internal/codec"
	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/spf13/cobra"
)

// newShowCmd creates the `show` command.
// Usage: iconbridge show github:Icons/home-fill.svg [--copy]
func newShowCmd(flags *globalFlags) *cobra.Command {
	var copyMarkup, dataURI bool

	cmd := &cobra.Command{
		Use:   "show <icon-id>",
		Short: "Print (or copy) the SVG markup of an icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), flags, eventPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer logger.Close()

			var write func(string) error
			if copyMarkup {
				write = clipboard.WriteAll
			}
			return runShowWith(cmd.Context(), rt, cmd.OutOrStdout(), args[0], dataURI, write)
		},
	}
	cmd.Flags().BoolVarP(&copyMarkup, "copy", "c", false, "copy the markup to the clipboard instead of printing it")
	cmd.Flags().BoolVar(&dataURI, "data-uri", false, "emit a base64 data: URI instead of raw markup")
	return cmd
}

// runShowWith is the testable core of the show command. When write is set
// the markup goes there instead of out.
func runShowWith(ctx context.Context, rt *runtime, out io.Writer, iconID string, dataURI bool, write func(string) error) error {
	kind, ok := domain.ProviderFromIconID(iconID)
	if !ok {
		return fmt.Errorf("invalid icon id %q (want provider:path)", iconID)
	}
	if _, err := rt.syncProvider(ctx, kind); err != nil {
		return err
	}

	descriptor, err := rt.app.Lookup(iconID)
	if err != nil {
		return err
	}
	markup, err := rt.app.LoadIcon(ctx, iconID, descriptor)
	if err != nil {
		return fmt.Errorf("loading %s: %w", descriptor.Path, err)
	}

	if dataURI {
		markup = svgDataURI(markup)
	}

	if write != nil {
		if err := write(markup); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(out, "📋 Copied %s (%d bytes)\n", descriptor.Path, len(markup))
		return nil
	}
	fmt.Fprintln(out, markup)
	return nil
}

func svgDataURI(markup string) string {
	return "data:image/svg+xml;base64," + codec.EncodeBase64(codec.EncodeUTF8(markup))
}
