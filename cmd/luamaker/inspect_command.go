package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"luamaker/internal/appinfo"
	"luamaker/internal/config"
	"luamaker/internal/workflow"
)

type inspectDepotView struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	ManifestID string `json:"manifest_id"`
	AddOn      bool   `json:"add_on"`
	Language   bool   `json:"language_restricted"`
	HasKey     bool   `json:"has_key"`
	Kept       bool   `json:"kept"`
	Reason     string `json:"reason"`
	Manifests  int    `json:"cached_manifests"`
}

type inspectView struct {
	AppID     string             `json:"app_id"`
	Name      string             `json:"name"`
	Source    string             `json:"source"`
	SteamRoot string             `json:"steam_root"`
	HasPlugin bool               `json:"has_plugin"`
	Depots    []inspectDepotView `json:"depots"`
	Script    string             `json:"script,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var appInfoFile string
	var steamDir string
	var scriptOnly bool

	cmd := &cobra.Command{
		Use:   "inspect <appid>",
		Short: "Show the depots, keys, and manifests for an app without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if dir := strings.TrimSpace(steamDir); dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return fmt.Errorf("resolve --steam-dir: %w", err)
				}
				runCfg.Paths.SteamDir = expanded
			}
			logger, err := ctx.loggerFor(cmd)
			if err != nil {
				return err
			}
			var opts []workflow.ManagerOption
			if path := strings.TrimSpace(appInfoFile); path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return fmt.Errorf("resolve --appinfo-file: %w", err)
				}
				opts = append(opts, workflow.WithAppInfoFile(expanded))
			}
			cache, err := ctx.pathCache()
			if err != nil {
				return err
			}
			opts = append(opts, workflow.WithPathCache(cache))

			insp, err := workflow.NewManager(&runCfg, logger, opts...).Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if scriptOnly {
				if insp.Err != nil {
					return insp.Err
				}
				_, err := fmt.Fprint(cmd.OutOrStdout(), insp.Script)
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, newInspectView(insp))
			}
			printInspection(cmd, insp)
			return nil
		},
	}

	cmd.Flags().StringVar(&appInfoFile, "appinfo-file", "", "Read app metadata from this file instead of running steamcmd")
	cmd.Flags().StringVar(&steamDir, "steam-dir", "", "Steam installation root (skips discovery)")
	cmd.Flags().BoolVar(&scriptOnly, "script", false, "Print only the generated Lua script")
	return cmd
}

func newInspectView(insp *workflow.Inspection) inspectView {
	view := inspectView{
		AppID:     insp.AppID,
		Name:      insp.Name,
		Source:    insp.Source,
		SteamRoot: insp.Layout.Root,
		HasPlugin: insp.HasPlugin,
		Depots:    []inspectDepotView{},
		Script:    insp.Script,
	}
	if insp.Err != nil {
		view.Error = insp.Err.Error()
	}
	for _, d := range insp.Depots {
		view.Depots = append(view.Depots, inspectDepotView{
			ID:         d.Depot.ID,
			Name:       d.Depot.Name,
			ManifestID: d.Depot.ContentVersionID,
			AddOn:      d.Depot.IsAddOn,
			Language:   d.Depot.IsLanguageRestricted,
			HasKey:     d.HasKey,
			Kept:       d.Kept,
			Reason:     d.Reason,
			Manifests:  d.Manifests,
		})
	}
	return view
}

func printInspection(cmd *cobra.Command, insp *workflow.Inspection) {
	out := cmd.OutOrStdout()
	name := insp.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "App %s: %s\n", insp.AppID, name)
	fmt.Fprintf(out, "Metadata source: %s\n", insp.Source)
	fmt.Fprintf(out, "Steam root: %s\n", insp.Layout.Root)
	fmt.Fprintf(out, "Plugin script present: %s\n", yesNo(insp.HasPlugin))
	fmt.Fprintln(out)

	if len(insp.Depots) == 0 {
		fmt.Fprintln(out, "No candidate depots")
	} else {
		rows := make([][]string, 0, len(insp.Depots))
		for _, d := range insp.Depots {
			rows = append(rows, []string{
				d.Depot.ID,
				d.Depot.Name,
				d.Depot.ContentVersionID,
				depotFlags(d.Depot),
				yesNo(d.HasKey),
				strconv.Itoa(d.Manifests),
				d.Reason,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Depot", "Name", "Manifest", "Flags", "Key", "Cached", "Decision"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		))
	}

	if insp.Err != nil {
		fmt.Fprintf(out, "\nGeneration would fail: %v\n", insp.Err)
		fmt.Fprintf(out, "Hint: %s\n", workflow.FailureHint(insp.Err))
	}
}

func depotFlags(d appinfo.Depot) string {
	var flags []string
	if d.IsAddOn {
		flags = append(flags, "dlc")
	}
	if d.IsLanguageRestricted {
		flags = append(flags, "language")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
