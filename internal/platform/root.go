package platform

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// ConfigFile is the per-vault configuration file name.
const ConfigFile = "gonext.toml"

// rootIndicators mark a vault root: the gonext system dir, an Obsidian
// vault, or an explicit config file.
var rootIndicators = []string{".gonext", ".obsidian", ConfigFile}

// FindRoot looks upwards from startDir for a vault root indicator and
// returns the absolute path of the first directory holding one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, "resolving start dir")
	}

	dir := abs
	for {
		for _, name := range rootIndicators {
			if hasFile(dir, name) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.WithHint(
		errors.Newf("no vault found above %s", abs),
		"pass --vault, or create .gonext or gonext.toml at the vault root",
	)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
