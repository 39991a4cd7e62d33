package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
	vaultlc "github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/lifecycle"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

var (
	reportFilters namespace.Filters
	reportNote    string
	reportDay     string
	reportWatch   bool

	locTypes      []string
	locComponents []string
	locDomains    []string
	locMin        int
)

var reportCmd = &cobra.Command{
	Use:   "report [name]",
	Short: "Run a named report, or list the available ones",
	Example: `  gonext report doable --area work --context '!context/phone'
  gonext report chain --note Permanent/8c1f0a2e
  gonext report logs --day 2026-10-14
  gonext report resources --component go --min 1 --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		if len(args) == 0 {
			for _, name := range v.Names() {
				fmt.Println(name)
			}
			return nil
		}

		ctx := cmd.Context()
		name := args[0]
		run := func() error {
			rc, err := reportContext(ctx, v)
			if err != nil {
				return err
			}
			ins, err := v.Generate(ctx, name, rc)
			if err != nil {
				return err
			}
			return output(os.Stdout).Render(ins)
		}

		if err := run(); err != nil {
			return err
		}
		if !reportWatch {
			return nil
		}
		return watch(ctx, v, run)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	f := reportCmd.Flags()
	f.StringSliceVar(&reportFilters.Area, "area", nil, "Area expressions, e.g. work or !area/home")
	f.StringSliceVar(&reportFilters.Context, "context", nil, "Context expressions")
	f.StringSliceVar(&reportFilters.Layer, "layer", nil, "Layer expressions")
	f.StringSliceVar(&reportFilters.Org, "org", nil, "Org expressions")
	f.StringSliceVar(&reportFilters.Project, "project", nil, "Project expressions")
	f.StringVar(&reportNote, "note", "", "Note the report starts from (vault path without extension)")
	f.StringVar(&reportDay, "day", "", "Day summarized by the logs report (YYYY-MM-DD, default today)")
	f.BoolVarP(&reportWatch, "watch", "w", false, "Re-run the report whenever the vault changes")
	f.StringSliceVar(&locTypes, "type", nil, "Locator: note types admitted")
	f.StringSliceVar(&locComponents, "component", nil, "Locator: wanted components")
	f.StringSliceVar(&locDomains, "domain", nil, "Locator: admitted domains")
	f.IntVar(&locMin, "min", 0, "Locator: how many wanted components must match (0 means all)")
}

func reportContext(ctx context.Context, v *platform.Vault) (report.ReportContext, error) {
	rc := report.ReportContext{Filters: reportFilters, Day: reportDay}
	if reportNote != "" {
		n, err := v.Store().Get(ctx, strings.TrimSuffix(reportNote, ".md"))
		if err != nil {
			return rc, errors.Wrapf(err, "loading note %s", reportNote)
		}
		rc.Note = n
	}

	if len(locTypes)+len(locComponents)+len(locDomains) > 0 || locMin > 0 {
		loc := v.Config().Locator
		if len(locTypes) > 0 {
			loc.Types = nil
			for _, s := range locTypes {
				t, err := core.ParseNoteType(s)
				if err != nil {
					return rc, err
				}
				loc.Types = append(loc.Types, t)
			}
		}
		if len(locComponents) > 0 {
			loc.Components = locComponents
		}
		if len(locDomains) > 0 {
			loc.Domains = locDomains
		}
		if locMin > 0 {
			loc.MinComponents = locMin
		}
		rc.Locator = &loc
	}
	return rc, nil
}

// watch re-runs the report on every vault change until ctx ends. A failing
// run is logged and the watch goes on.
func watch(ctx context.Context, v *platform.Vault, run func() error) error {
	events, err := v.Watch(ctx, "**")
	if err != nil {
		return err
	}
	src := vaultlc.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return errors.Wrap(err, "starting watcher")
	}
	slog.Info("watching vault", "root", v.Root)

	for e := range vaultlc.Changes(ctx, src.Events()) {
		slog.Debug("vault changed", "event", e.String())
		if err := run(); err != nil {
			slog.Error("report failed", "error", err)
		}
	}
	return nil
}
