package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all cached responses",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			cache.ClearAll(dir)
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cache cleared")
			return nil
		}),
	})

	return cmd
}
