package main

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

var (
	newTags     []string
	newNeeds    []string
	newStatus   string
	newParent   string
	newRef      string
	newPriority float64
)

var newCmd = &cobra.Command{
	Use:   "new <type> [title]",
	Short: "Create a note with a fresh uuid in the folder of its type",
	Example: `  gonext new task "Renew passport" --tag area/home --needs 8c1f0a2e-...
  gonext new log --parent 8c1f0a2e-...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := core.ParseNoteType(args[0])
		if err != nil {
			return err
		}
		status, err := core.ParseStatus(newStatus)
		if err != nil {
			return err
		}
		if status == core.StatusNone && typ.IsActionable() {
			status = core.StatusTodo
		}

		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()

		id := uuid.NewString()
		now := time.Now()
		n := &core.Note{
			ID:        path.Join(folderFor(v.Config().Roots, typ), id),
			UUID:      id,
			Type:      typ,
			Status:    status,
			Tags:      core.ParseTags(newTags),
			CreatedAt: &now,
			Priority:  newPriority,
			Needs:     newNeeds,
			ParentID:  newParent,
			RefID:     newRef,
		}
		body := ""
		if len(args) == 2 {
			n.Title = args[1]
			body = "# " + n.Title + "\n"
		}

		if err := v.Save(cmd.Context(), n, body); err != nil {
			return err
		}
		fmt.Println(n.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringSliceVar(&newTags, "tag", nil, "Tags, e.g. area/work")
	newCmd.Flags().StringSliceVar(&newNeeds, "needs", nil, "UUIDs of tasks this one depends on")
	newCmd.Flags().StringVar(&newStatus, "status", "", "Status (default todo for tasks)")
	newCmd.Flags().StringVar(&newParent, "parent", "", "Owning task UUID (logs)")
	newCmd.Flags().StringVar(&newRef, "ref", "", "Referenced note UUID (media)")
	newCmd.Flags().Float64Var(&newPriority, "priority", 0, "Priority")
}

// folderFor is the configured root a new note of t is written to. Types
// without a root land at the vault root.
func folderFor(r report.Roots, t core.NoteType) string {
	switch t {
	case core.TypeTask, core.TypePraxis, core.TypeProvision:
		return r.Tasks
	case core.TypePermanent:
		return r.Permanent
	case core.TypeResource:
		return r.Resources
	case core.TypeDomain:
		return r.Domains
	case core.TypeLog:
		return r.Logs
	case core.TypeMedia:
		return r.Media
	default:
		return ""
	}
}
