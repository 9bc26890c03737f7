package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type globalFlags struct {
	settingsPath string
	storePath    string
	logFile      string
}

// NewRootCmd creates the top-level `iconbridge` command. Without a
// subcommand it opens the terminal UI.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "iconbridge",
		Short: "Icon Bridge: browse and place icons from GitHub or Azure DevOps repositories",
		Long: `iconbridge indexes the SVG icons kept in a GitHub or Azure DevOps repository,
lets you search and preview them, places them on a canvas document and swaps
placed icons between their outline, fill and bulk variants.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.settingsPath, "settings", "", "settings file (default ~/.iconbridge/settings.toml)")
	root.PersistentFlags().StringVar(&flags.storePath, "store", "", "config store file (overrides store_path)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "append logs to this file (overrides log_file)")

	root.AddCommand(newSyncCmd(flags))
	root.AddCommand(newConfigureCmd(flags))
	root.AddCommand(newSearchCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newSettingsCmd(flags))

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
