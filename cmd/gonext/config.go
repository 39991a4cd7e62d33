package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
)

var forceConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gonext.toml",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration into the vault",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := vaultPath
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "getting working directory")
			}
			root = wd
		}
		file := configFile
		if file == "" {
			file = filepath.Join(root, platform.ConfigFile)
		}
		if err := platform.WriteConfig(file, platform.DefaultConfig(), forceConfig); err != nil {
			return err
		}
		fmt.Println("Wrote", file)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return err
		}
		cfg, err := platform.LoadConfig(root, configFile)
		if err != nil {
			return err
		}
		return errors.Wrap(toml.NewEncoder(os.Stdout).Encode(cfg), "encoding config")
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
	configInitCmd.Flags().BoolVar(&forceConfig, "force", false, "Overwrite an existing file")
}
