package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"luamaker/internal/history"
)

type historyEntryView struct {
	RunID      string    `json:"run_id"`
	AppID      string    `json:"app_id"`
	AppName    string    `json:"app_name"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	Depots     int       `json:"depots"`
	Dropped    int       `json:"dropped"`
	Manifests  int       `json:"manifests"`
	OutputDir  string    `json:"output_dir,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past generate runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				views := make([]historyEntryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, newHistoryEntryView(e))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.AppID,
					e.AppName,
					string(e.Mode),
					string(e.Status),
					strconv.Itoa(e.DepotCount),
					strconv.Itoa(e.ManifestCount),
					humanize.Time(e.StartedAt),
					e.Duration().Round(time.Millisecond).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"App", "Name", "Mode", "Status", "Depots", "Manifests", "Started", "Took"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	}
}

func newHistoryEntryView(e history.Entry) historyEntryView {
	return historyEntryView{
		RunID:      e.RunID,
		AppID:      e.AppID,
		AppName:    e.AppName,
		Mode:       string(e.Mode),
		Status:     string(e.Status),
		Depots:     e.DepotCount,
		Dropped:    e.DroppedCount,
		Manifests:  e.ManifestCount,
		OutputDir:  e.OutputDir,
		Error:      e.ErrorMessage,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	}
}
