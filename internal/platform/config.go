package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/namespace"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/ontology"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

// Store kinds.
const (
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// EnvPrefix prefixes environment overrides, e.g. GONEXT_STORE_KIND.
const EnvPrefix = "GONEXT"

// Config is the content of gonext.toml.
type Config struct {
	Store   StoreConfig       `mapstructure:"store" toml:"store"`
	Log     LogConfig         `mapstructure:"log" toml:"log"`
	Roots   report.Roots      `mapstructure:"roots" toml:"roots"`
	Filters namespace.Filters `mapstructure:"filters" toml:"filters"`
	Locator ontology.Locator  `mapstructure:"locator" toml:"locator"`
}

// StoreConfig selects and tunes the note store.
type StoreConfig struct {
	Kind      string   `mapstructure:"kind" toml:"kind"`
	SystemDir string   `mapstructure:"system_dir" toml:"system_dir"`
	Ignore    []string `mapstructure:"ignore" toml:"ignore"`
	// Snapshot is the SQLite file, relative to the vault root.
	Snapshot string `mapstructure:"snapshot" toml:"snapshot"`
}

// LogConfig sets the stderr level and an optional JSON log file.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	// File receives JSON logs in addition to stderr. Empty disables it.
	File string `mapstructure:"file" toml:"file"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	rc := report.DefaultConfig()
	return Config{
		Store: StoreConfig{
			Kind:      StoreFS,
			SystemDir: ".gonext",
			Ignore:    []string{"Templates/**", "**/.trash/**"},
			Snapshot:  filepath.Join(".gonext", "snapshot.db"),
		},
		Log:     LogConfig{Level: "info"},
		Roots:   rc.Roots,
		Filters: rc.Filters,
		Locator: rc.Locator,
	}
}

// Report extracts the report service configuration.
func (c Config) Report() report.Config {
	return report.Config{Roots: c.Roots, Filters: c.Filters, Locator: c.Locator}
}

// LoadConfig reads the configuration of the vault at root. An empty file
// means root/gonext.toml, which may be absent; an explicit file must exist.
// Environment variables override both.
func LoadConfig(root, file string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	explicit := file != ""
	if !explicit {
		file = filepath.Join(root, ConfigFile)
	}
	if _, err := os.Stat(file); err == nil || explicit {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "decoding config %s", file)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("store.kind", c.Store.Kind)
	v.SetDefault("store.system_dir", c.Store.SystemDir)
	v.SetDefault("store.ignore", c.Store.Ignore)
	v.SetDefault("store.snapshot", c.Store.Snapshot)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)

	v.SetDefault("roots.tasks", c.Roots.Tasks)
	v.SetDefault("roots.permanent", c.Roots.Permanent)
	v.SetDefault("roots.resources", c.Roots.Resources)
	v.SetDefault("roots.domains", c.Roots.Domains)
	v.SetDefault("roots.logs", c.Roots.Logs)
	v.SetDefault("roots.media", c.Roots.Media)

	for _, ns := range namespace.Filtered() {
		v.SetDefault("filters."+string(ns), c.Filters.For(ns))
	}

	drop := make([]string, len(c.Locator.DropStatus))
	for i, s := range c.Locator.DropStatus {
		drop[i] = string(s)
	}
	v.SetDefault("locator.drop_status", drop)
	v.SetDefault("locator.components", c.Locator.Components)
	v.SetDefault("locator.min_components", c.Locator.MinComponents)
	v.SetDefault("locator.domains", c.Locator.Domains)
}

// WriteConfig writes cfg as TOML. An existing file is kept unless force.
func WriteConfig(file string, cfg Config, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(file, flags, 0o644)
	if os.IsExist(err) {
		return errors.WithHint(errors.Newf("config already exists: %s", file), "pass --force to overwrite")
	}
	if err != nil {
		return errors.Wrap(err, "creating config")
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(f.Close(), "closing config")
}
