package platform

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/fs"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/memory"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/adapters/sqlite"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/core"
	"github.com/aymeric-guth/obsidian-gonext-sub000/pkg/report"
)

// Vault is a report service bound to the store it was opened with.
type Vault struct {
	*report.Service

	Root     string
	Settings Config
	close    func() error
}

// Close persists caches and releases the store.
func (v *Vault) Close() error {
	if v.close == nil {
		return nil
	}
	return v.close()
}

// New opens the vault at root and wires its store into a report service.
//
//	v, err := platform.New("./notes", platform.WithReadOnly(true))
func New(root string, opts ...Option) (*Vault, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var cfg Config
	if o.config != nil {
		cfg = *o.config
	} else {
		loaded, err := LoadConfig(root, o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.systemDir != "" {
		cfg.Store.SystemDir = o.systemDir
	}
	if o.storeKind != "" {
		cfg.Store.Kind = o.storeKind
	}
	cfg.Store.Ignore = append(cfg.Store.Ignore, o.ignore...)

	v := &Vault{Root: root, Settings: cfg}
	store := o.store
	if store == nil {
		var err error
		if store, v.close, err = openStore(root, cfg.Store, o, logger); err != nil {
			return nil, err
		}
	}

	var svcOpts []report.Option
	svcOpts = append(svcOpts, report.WithLogger(logger))
	if o.clock != nil {
		svcOpts = append(svcOpts, report.WithClock(o.clock))
	}
	v.Service = report.New(store, cfg.Report(), svcOpts...)

	logger.Debug("vault opened", "root", root, "store", cfg.Store.Kind)
	return v, nil
}

func openStore(root string, sc StoreConfig, o *options, logger *slog.Logger) (core.Store, func() error, error) {
	ctx := context.Background()
	switch sc.Kind {
	case StoreFS, "":
		repo := fs.NewRepository(fs.Config{
			Path:      root,
			SystemDir: sc.SystemDir,
			Ignore:    sc.Ignore,
			MustExist: o.mustExist,
			ReadOnly:  o.readOnly,
			Logger:    logger,
		})
		if err := repo.Initialize(ctx); err != nil {
			return nil, nil, err
		}
		return repo, repo.Flush, nil
	case StoreSQLite:
		db, err := sqlite.Open(ctx, SnapshotPath(root, sc))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case StoreMemory:
		return memory.New(), nil, nil
	default:
		return nil, nil, errors.WithHintf(
			errors.Newf("unknown store kind %q", sc.Kind),
			"use %s, %s or %s", StoreFS, StoreSQLite, StoreMemory,
		)
	}
}

// SnapshotPath resolves the configured SQLite snapshot against root.
func SnapshotPath(root string, sc StoreConfig) string {
	if sc.Snapshot == "" {
		return filepath.Join(root, sc.SystemDir, "snapshot.db")
	}
	if filepath.IsAbs(sc.Snapshot) || sc.Snapshot == ":memory:" {
		return sc.Snapshot
	}
	return filepath.Join(root, sc.Snapshot)
}

// Snapshot copies every note of src into the SQLite file at path and
// returns how many notes were written.
func Snapshot(ctx context.Context, src core.Store, path string) (int, error) {
	notes, err := src.List(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "listing notes")
	}
	db, err := sqlite.Open(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := db.Import(ctx, notes); err != nil {
		db.Close()
		return 0, err
	}
	return len(notes), errors.Wrap(db.Close(), "closing snapshot")
}
