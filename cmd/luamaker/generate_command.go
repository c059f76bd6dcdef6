package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"luamaker/internal/config"
	"luamaker/internal/generator"
	"luamaker/internal/history"
	"luamaker/internal/logging"
	"luamaker/internal/workflow"
)

type generateOptions struct {
	appInfoFile string
	outputDir   string
	steamDir    string
	noPlugin    bool
	loop        bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:     "generate [appid]",
		Aliases: []string{"gen"},
		Short:   "Generate <appid>.lua and copy its depot manifests",
		Long: `Generate the Lua depot script for a Steam app and copy the matching
cached manifests into "<output_dir>/[<appid>] <name>".

App metadata comes from steamcmd; when steamcmd is unavailable or returns no
usable record, the manual fallback file (steamcmd.fallback_file) is read
instead. When Steam already holds a plugin script for the app it is reused
unless --no-plugin is given.

Without an app id argument the app id is prompted for on an interactive
terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg, err := applyGenerateOverrides(*cfg, opts)
			if err != nil {
				return err
			}
			logger, err := ctx.loggerFor(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			managerOpts := []workflow.ManagerOption{}
			if runCfg.History.Enabled {
				store, err := ctx.openHistory(cmd.Context())
				if err != nil {
					logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
						logging.Error(err),
						logging.String(logging.FieldImpact, "this run will not be recorded"),
					)
				} else {
					defer store.Close()
					managerOpts = append(managerOpts, workflow.WithHistory(store))
				}
			}
			if path := strings.TrimSpace(opts.appInfoFile); path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return fmt.Errorf("resolve --appinfo-file: %w", err)
				}
				managerOpts = append(managerOpts, workflow.WithAppInfoFile(expanded))
			}
			if p.interactive {
				managerOpts = append(managerOpts, workflow.WithFileWaiter(p.fileWaiter()))
			}
			mgr := workflow.NewManager(&runCfg, logger, managerOpts...)

			for {
				appID, err := resolveAppID(p, args)
				if err != nil {
					return err
				}
				report, runErr := mgr.Generate(cmd.Context(), appID)
				if runErr == nil {
					if ctx.JSONMode() {
						if err := writeJSON(cmd, newReportView(report)); err != nil {
							return err
						}
					} else {
						printReport(cmd, report)
					}
				}
				if !opts.loop || !p.interactive {
					return runErr
				}
				if runErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\nHint: %s\n", runErr, workflow.FailureHint(runErr))
				}
				if !p.confirm("Run again? (Y/N): ") {
					fmt.Fprintln(cmd.ErrOrStderr(), "Goodbye!")
					return nil
				}
				args = nil
			}
		},
	}

	cmd.Flags().StringVar(&opts.appInfoFile, "appinfo-file", "", "Read app metadata from this file instead of running steamcmd")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Parent directory for the per-app output folder")
	cmd.Flags().StringVar(&opts.steamDir, "steam-dir", "", "Steam installation root (skips discovery)")
	cmd.Flags().BoolVar(&opts.noPlugin, "no-plugin", false, "Ignore an existing Steam plugin script and generate from config.vdf")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "Offer to process another app after each run (interactive only)")
	return cmd
}

func applyGenerateOverrides(cfg config.Config, opts generateOptions) (config.Config, error) {
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return cfg, fmt.Errorf("resolve --output-dir: %w", err)
		}
		cfg.Paths.OutputDir = expanded
	}
	if dir := strings.TrimSpace(opts.steamDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return cfg, fmt.Errorf("resolve --steam-dir: %w", err)
		}
		cfg.Paths.SteamDir = expanded
	}
	if opts.noPlugin {
		cfg.Output.UsePlugin = false
	}
	return cfg, nil
}

func resolveAppID(p *prompter, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	if !p.interactive {
		return "", errors.New("app id required (pass it as an argument)")
	}
	for {
		appID, err := p.ask("Enter Steam App ID (game must be already installed): ")
		if err != nil {
			return "", err
		}
		if err := generator.ValidateAppID(appID); err != nil {
			fmt.Fprintf(p.out, "%v\n", err)
			continue
		}
		return appID, nil
	}
}

type droppedView struct {
	DepotID string `json:"depot_id"`
	Name    string `json:"name,omitempty"`
	Reason  string `json:"reason"`
}

type reportView struct {
	RunID      string        `json:"run_id"`
	AppID      string        `json:"app_id"`
	Name       string        `json:"name"`
	Mode       string        `json:"mode"`
	Source     string        `json:"source"`
	OutputDir  string        `json:"output_dir"`
	ScriptPath string        `json:"script_path"`
	Depots     []string      `json:"depots"`
	Dropped    []droppedView `json:"dropped,omitempty"`
	Manifests  []string      `json:"manifests"`
}

func newReportView(r *workflow.Report) reportView {
	view := reportView{
		RunID:      r.RunID,
		AppID:      r.AppID,
		Name:       r.Name,
		Mode:       string(r.Mode),
		Source:     r.Source,
		OutputDir:  r.OutputDir,
		ScriptPath: r.ScriptPath,
		Depots:     []string{},
		Manifests:  []string{},
	}
	if r.Mode == history.ModePlugin {
		view.Depots = append(view.Depots, r.PluginDepots...)
	} else {
		for _, d := range r.Depots {
			view.Depots = append(view.Depots, d.DepotID)
		}
	}
	for _, d := range r.Dropped {
		view.Dropped = append(view.Dropped, droppedView{DepotID: d.Depot.ID, Name: d.Depot.Name, Reason: string(d.Reason)})
	}
	for _, m := range r.Manifests {
		view.Manifests = append(view.Manifests, m.Name)
	}
	return view
}

func printReport(cmd *cobra.Command, r *workflow.Report) {
	out := cmd.OutOrStdout()
	name := r.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "Found: %s\n", name)
	if r.Mode == history.ModePlugin {
		fmt.Fprintf(out, "Reused plugin script with %d depot(s)\n", len(r.PluginDepots))
	}
	for _, d := range r.Dropped {
		fmt.Fprintf(out, "Skipped depot %s (%s)\n", d.Depot.ID, d.Reason)
	}
	for _, m := range r.Manifests {
		if m.DepotName != "" && r.Name != "" {
			fmt.Fprintf(out, "Extracting: %s - %s\n", r.Name, m.DepotName)
		}
	}
	fmt.Fprintf(out, "Copied %d manifest(s) to %s\n", len(r.Manifests), r.OutputDir)
	fmt.Fprintf(out, "Lua file at %s\n", r.ScriptPath)
	fmt.Fprintf(out, "Done! Outputs in %s\n", r.OutputDir)
}
