package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the remembered Steam installation path",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show cached paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.pathCache()
			if err != nil {
				return err
			}
			entries := cache.List()
			if ctx.JSONMode() {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache file: %s\n", cache.Path())
			if len(entries) == 0 {
				fmt.Fprintln(out, "No cached paths")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Key, e.Path, humanize.Time(e.CachedAt)})
			}
			fmt.Fprintln(out, renderTable([]string{"Key", "Path", "Cached"}, rows, nil))
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget cached paths so Steam is discovered again",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.pathCache()
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached path(s)\n", count)
			return nil
		},
	})

	return cacheCmd
}
