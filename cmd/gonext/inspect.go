package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/render"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show a note with its effective tags, readiness and revision state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		ctx := cmd.Context()
		n, err := v.Store().Get(ctx, strings.TrimSuffix(args[0], ".md"))
		if err != nil {
			return err
		}

		var ins []core.Instruction
		switch {
		case n.Type.IsActionable():
			doable, err := v.Readiness().IsDoable(ctx, n)
			if err != nil {
				return err
			}
			pending, err := v.Readiness().PendingDependencies(ctx, n)
			if err != nil {
				return err
			}
			if doable {
				ins = append(ins, core.Paragraph{Text: "Doable now."})
			} else {
				ins = append(ins, core.Paragraph{Text: fmt.Sprintf("Not doable: status %q, %d pending dependencies.", n.Status, len(pending))})
			}
			if len(pending) > 0 {
				ins = append(ins, core.Table{Renderer: report.RendererBlocked, Rows: pending})
			}
		case n.Type == core.TypePermanent || n.Type == core.TypeResource:
			last, err := v.Revisions().IsLastRevision(ctx, n)
			if err != nil {
				return err
			}
			if last {
				ins = append(ins, core.Paragraph{Text: "Latest revision."})
			} else {
				ins = append(ins, core.Paragraph{Text: "Superseded; run `gonext report chain --note " + n.ID + "`."})
			}
		}

		if jsonOut {
			all := append([]core.Instruction{core.Table{Renderer: report.RendererNotes, Rows: []*core.Note{n}}}, ins...)
			return render.NewJSON(os.Stdout).Render(all)
		}
		term := render.NewTerminal(os.Stdout)
		if err := term.Describe(n); err != nil {
			return err
		}
		return term.Render(ins)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
