package cli

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/johanforsgren/iconbridge/internal/settings"
	"github.com/spf13/cobra"
)

// newSettingsCmd creates the `settings` command.
// Usage: iconbridge settings [--write]
func newSettingsCmd(flags *globalFlags) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings, or write them to the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(flags)
			if err != nil {
				return err
			}
			if !write {
				return printSettings(cmd.OutOrStdout(), s)
			}

			path := flags.settingsPath
			if path == "" {
				if path, err = settings.DefaultPath(); err != nil {
					return err
				}
			}
			if err := s.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "write the effective settings to the settings file")
	return cmd
}

func printSettings(out io.Writer, s *settings.Settings) error {
	return toml.NewEncoder(out).Encode(s)
}
