package main

import (
	"fmt"
	"strings"

	"github.com/aymeric-guth/obsidian-gonext-sub000"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gonext",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gonext version %s\n", strings.TrimSpace(gonext.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
