package cli

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/pxx/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// includeEnv names the environment variable holding the compiler's search
// path for headers.
const includeEnv = "CPATH"

var defaultDirMode os.FileMode = 0o700

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// searchPath returns the include directories in priority order: the
// --include flags first, then the entries of $CPATH. Entries that are not
// directories are dropped, and so are repeats.
func searchPath(include []string) []string {
	list := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(includeEnv))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(list) {
		if dir == "" {
			continue
		}

		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}

		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
