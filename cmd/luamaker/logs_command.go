package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"luamaker/internal/generator"
	"luamaker/internal/logging"
	"luamaker/internal/logs"
	"luamaker/internal/steamcmd"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string
	var responseApp string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the luamaker log or an archived steamcmd response",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			if appID := strings.TrimSpace(responseApp); appID != "" {
				if err := generator.ValidateAppID(appID); err != nil {
					return err
				}
				path = filepath.Join(cfg.Paths.LogDir, steamcmd.ResponseLogName(appID))
			}

			var filter logs.Filter
			if id := strings.TrimSpace(runID); id != "" {
				filter = logs.Contains(id)
			}

			out := cmd.OutOrStdout()
			result, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			if len(result.Lines) == 0 && !follow {
				fmt.Fprintf(cmd.ErrOrStderr(), "No log lines in %s\n", path)
				return nil
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), path, result.Offset, 0, filter, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines for this run id")
	cmd.Flags().StringVar(&responseApp, "response", "", "Show the archived steamcmd response for this app id")
	return cmd
}
