package main

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000"
	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/mcptools"
	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the vault reports as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault(platform.WithReadOnly(true))
		if err != nil {
			return err
		}
		defer v.Close()

		s := mcptools.NewServer(v.Service, strings.TrimSpace(gonext.Version))
		slog.Debug("serving mcp over stdio", "root", v.Root)
		return server.ServeStdio(s)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
