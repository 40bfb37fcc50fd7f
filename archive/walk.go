package archive

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var errLimit = errors.New("file limit reached")

func (a *Archive) enumerate(cfg extraction) error {
	err := afero.Walk(a.fs, a.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(a.Root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		entry := Entry{FileInfo: info, Path: rel}

		if info.IsDir() {
			if cfg.skip.ExcludeDir(entry) {
				a.log.Debug("Skipping directory", "dir", rel)
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			a.log.Debug("Skipping file", "path", rel, "reason", "not a regular file")
			return nil
		}

		if cfg.skip.ExcludeFile(entry) {
			a.log.Debug("Skipping file", "path", rel)
			return nil
		}

		if !cfg.matches(rel) {
			a.log.Debug("Skipping file", "path", rel, "reason", "glob")
			return nil
		}

		a.Files = append(a.Files, rel)

		if cfg.maxFiles > 0 && len(a.Files) >= cfg.maxFiles {
			a.log.Debug("File limit reached", "limit", cfg.maxFiles)
			return errLimit
		}

		return nil
	})

	if errors.Is(err, errLimit) {
		return nil
	}

	return err
}
