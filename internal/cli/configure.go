package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/johanforsgren/iconbridge/internal/domain"
	"github.com/johanforsgren/iconbridge/internal/logger"
	"github.com/spf13/cobra"
)

// providerFlags maps command-line flags to provider settings keys.
var providerFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"pat", "pat", "personal access token"},
	{"repository", "repository", "repository (owner/repo, name or clone URL)"},
	{"branch", "branch", "branch (default main)"},
	{"organization-url", "organizationUrl", "Azure DevOps organization URL"},
	{"project", "project", "Azure DevOps project"},
}

// newConfigureCmd creates the `configure` command.
// Usage: iconbridge configure github --pat ghp_... --repository acme/icons
func newConfigureCmd(flags *globalFlags) *cobra.Command {
	values := make(map[string]*string, len(providerFlags))
	var selectProvider bool

	cmd := &cobra.Command{
		Use:   "configure <github|azure>",
		Short: "Save provider settings and sync when the provider is selected",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseProvider(args[0])
			if err != nil {
				return err
			}

			changed := make(map[string]string)
			for _, f := range providerFlags {
				if cmd.Flags().Changed(f.flag) {
					changed[f.key] = *values[f.flag]
				}
			}

			rt, err := newRuntime(cmd.Context(), flags, eventPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer logger.Close()
			return runConfigureWith(cmd.Context(), rt, cmd.OutOrStdout(), kind, changed, selectProvider)
		},
	}

	for _, f := range providerFlags {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().BoolVar(&selectProvider, "select", false, "make this the selected provider")

	return cmd
}

// runConfigureWith is the testable core of the configure command.
func runConfigureWith(ctx context.Context, rt *runtime, out io.Writer, kind domain.ProviderKind, values map[string]string, selectProvider bool) error {
	err := rt.app.Handle(ctx, domain.Command{
		Type:                domain.CommandSaveProvider,
		Provider:            string(kind),
		Values:              values,
		SetSelectedProvider: selectProvider,
	})
	if err != nil {
		return err
	}

	cfg := rt.app.State().Config()
	saved := cfg.Provider(kind)
	fmt.Fprintf(out, "💾 Saved %s settings (repository %q, branch %q)\n", kind.DisplayName(), saved.Repository, saved.Branch)
	if cfg.SelectedProvider == kind {
		fmt.Fprintf(out, "📦 %s is selected: %d icon(s)\n", kind.DisplayName(), len(rt.app.State().Icons(kind)))
	}
	return nil
}
