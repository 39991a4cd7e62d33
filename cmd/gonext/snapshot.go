package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [path]",
	Short: "Export the vault frontmatter into a SQLite snapshot",
	Long: `Export every note of the filesystem vault into a SQLite file. Later
commands read it with --store sqlite, without touching the Markdown files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault(platform.WithStoreKind(platform.StoreFS), platform.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer v.Close()

		dest := platform.SnapshotPath(v.Root, v.Settings.Store)
		if len(args) == 1 {
			dest = args[0]
		}
		n, err := platform.Snapshot(cmd.Context(), v.Store(), dest)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d notes to %s\n", n, dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
