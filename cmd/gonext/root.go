package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/aymeric-guth/obsidian-gonext-sub000/internal/platform"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/render"
)

var (
	vaultPath  string
	configFile string
	storeKind  string
	verbose    bool
	jsonOut    bool
	plain      bool

	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gonext",
	Short: "Reports over a vault of typed, tagged Markdown notes",
	Long: `gonext reads the frontmatter of an Obsidian-style vault and answers
questions about it: which tasks are doable now, which revision of a note is
the latest, how resources spread over domains and components.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		if plain || jsonOut {
			render.Plain()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault root (default: searched upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <vault>/gonext.toml)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Note store: fs, sqlite or memory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors")
}

func resolveRoot() (string, error) {
	if vaultPath != "" {
		return filepath.Abs(vaultPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting working directory")
	}
	return platform.FindRoot(wd)
}

// openVault loads the vault configuration, replaces the default logger
// with the configured one and opens the store.
func openVault(opts ...platform.Option) (*platform.Vault, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := platform.LoadConfig(root, configFile)
	if err != nil {
		return nil, err
	}
	logger, err := configureLogger(root, cfg.Log)
	if err != nil {
		return nil, err
	}

	base := []platform.Option{
		platform.WithConfig(cfg),
		platform.WithLogger(logger),
		platform.WithMustExist(true),
	}
	if storeKind != "" {
		base = append(base, platform.WithStoreKind(storeKind))
	}
	return platform.New(root, append(base, opts...)...)
}

func configureLogger(root string, lc platform.LogConfig) (*slog.Logger, error) {
	level, err := platform.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	file := lc.File
	if file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}
	logger, closer, err := platform.NewLogger(os.Stderr, level, file)
	if err != nil {
		return nil, err
	}
	logCloser = closer
	slog.SetDefault(logger)
	return logger, nil
}

func output(w io.Writer) render.Renderer {
	if jsonOut {
		return render.NewJSON(w)
	}
	return render.NewTerminal(w)
}
