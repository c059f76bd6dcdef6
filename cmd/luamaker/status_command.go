package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"luamaker/internal/logging"
	"luamaker/internal/preflight"
	"luamaker/internal/steampath"
	"luamaker/internal/workflow"
)

type statusCheckView struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional"`
	Detail   string `json:"detail,omitempty"`
}

type statusView struct {
	ConfigPath string            `json:"config_path"`
	SteamRoot  string            `json:"steam_root,omitempty"`
	SteamError string            `json:"steam_error,omitempty"`
	CachedApps int               `json:"cached_paths"`
	Checks     []statusCheckView `json:"checks"`
	Ready      bool              `json:"ready"`
}

// errChecksFailed makes status exit non-zero when a required check fails.
var errChecksFailed = errors.New("one or more required checks failed")

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check Steam, steamcmd, and directory readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := ctx.pathCache()
			if err != nil {
				return err
			}

			mgr := workflow.NewManager(cfg, logging.NewNop(), workflow.WithPathCache(cache))
			var layoutPtr *steampath.Layout
			layout, layoutErr := mgr.ResolveLayout(cmd.Context())
			if layoutErr == nil {
				layoutPtr = &layout
			}
			results := preflight.RunAll(cmd.Context(), cfg, layoutPtr)

			view := statusView{
				ConfigPath: ctx.configPath,
				CachedApps: cache.Count(),
				Ready:      layoutErr == nil && !preflight.Failed(results),
			}
			if layoutErr == nil {
				view.SteamRoot = layout.Root
			} else {
				view.SteamError = layoutErr.Error()
			}
			for _, r := range results {
				view.Checks = append(view.Checks, statusCheckView{Name: r.Name, Passed: r.Passed, Optional: r.Optional, Detail: r.Detail})
			}

			if ctx.JSONMode() {
				if err := writeJSON(cmd, view); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Steam", colorize) {
					fmt.Fprintln(out, line)
				}
				if layoutErr != nil {
					fmt.Fprintln(out, renderStatusLine("Installation", statusError, layoutErr.Error(), colorize))
					if hint := workflow.FailureHint(layoutErr); hint != "" {
						fmt.Fprintln(out, statusIndent+"Hint: "+hint)
					}
				} else {
					fmt.Fprintln(out, renderStatusLine("Installation", statusOK, layout.Root, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Checks", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range checkLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			if !view.Ready {
				return errChecksFailed
			}
			return nil
		},
	}
}
