package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	var appVersion string

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "vxhub-cli version %s\n", version)
			errOut := cmd.ErrOrStderr()

			// Check for updates (non-blocking, fails silently)
			result := update.CheckForUpdate(cmd.Context(), version)
			if result != nil && result.UpdateAvailable {
				_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", result.UpdateURL)
			}

			// With --app-version, also check the configured bundle against
			// the store listing.
			if appVersion == "" {
				return
			}
			client, account, err := newClientFactory().hub()
			if err != nil || account.BundleID == "" {
				return
			}
			app := update.CheckAppUpdate(cmd.Context(), client.AppStore(), account.BundleID, appVersion)
			if app != nil && app.UpdateAvailable {
				_, _ = fmt.Fprintf(errOut, "\nApp update available: %s -> %s\n", app.CurrentVersion, app.LatestVersion)
				_, _ = fmt.Fprintf(errOut, "Store: %s\n", app.UpdateURL)
			}
		},
	}

	cmd.Flags().StringVar(&appVersion, "app-version", "", "Installed app version to compare against the store listing")

	return cmd
}
