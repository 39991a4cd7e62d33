package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

var (
	listPrefix string
	filterTag  string
	listType   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes of the vault",
	Example: `  gonext list --prefix Tasks
  gonext list --prefix 'Resources/**/go*' --tag domain/dev`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		var typ core.NoteType
		if listType != "" {
			if typ, err = core.ParseNoteType(listType); err != nil {
				return err
			}
		}

		ctx := cmd.Context()
		var notes []*core.Note
		if listPrefix != "" {
			notes, err = v.Store().ByPathPrefix(ctx, listPrefix)
		} else {
			notes, err = v.Store().List(ctx)
		}
		if err != nil {
			return err
		}

		filtered := notes[:0:0]
		for _, n := range notes {
			if filterTag != "" && !n.HasTag(filterTag) {
				continue
			}
			if typ != "" && n.Type != typ {
				continue
			}
			filtered = append(filtered, n)
		}

		return output(os.Stdout).Render([]core.Instruction{
			core.Stat{Name: "notes", Value: float64(len(filtered))},
			core.Table{Renderer: report.RendererNotes, Rows: filtered},
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "Folder or glob of vault paths")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag (sub-tags match)")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter notes by type")
}
