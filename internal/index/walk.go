package index

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"editgrep/internal/domain"
)

// file is a candidate for searching, addressed both ways
type file struct {
	abs string
	rel string // slash separated, relative to the root
}

// patternList splits a comma separated glob list, dropping blanks
func patternList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchAny reports whether rel or its base name matches one of patterns
func matchAny(patterns []string, rel string) bool {
	name := filepath.Base(rel)
	for _, p := range patterns {
		matched, err := doublestar.Match(p, rel)
		if err != nil {
			// bad pattern shouldn't break scanning
			continue
		}
		if matched {
			return true
		}
		if matched, _ := doublestar.Match(p, name); matched {
			return true
		}
	}
	return false
}

func (ix *FS) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, d := range ix.settings.ExcludedDirs {
		if name == d {
			return true
		}
	}
	return false
}

func (ix *FS) allowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, b := range ix.settings.BinaryExtensions {
		if ext == b {
			return false
		}
	}
	for _, a := range ix.settings.AllowedExtensions {
		if ext == a {
			return true
		}
	}
	for _, a := range ix.settings.AllowedFilenames {
		if name == a {
			return true
		}
	}
	return false
}

// Protected reports whether rel may never be rewritten
func (ix *FS) Protected(rel string) bool {
	rel = strings.Trim(rel, "/")
	first := strings.SplitN(rel, "/", 2)[0]
	for _, p := range ix.settings.ProtectedPaths {
		if rel == p || first == p {
			return true
		}
	}
	return false
}

// collect walks the root and returns the files passing filters in lexical order
func (ix *FS) collect(ctx context.Context, filters domain.Filters, skipProtected bool) ([]file, error) {
	info, err := os.Stat(ix.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, ix.root)
	}

	include := patternList(filters.Include)
	exclude := patternList(filters.Exclude)

	var files []file
	err = filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}

		if d.IsDir() {
			if path != ix.root && ix.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !ix.allowed(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(ix.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if skipProtected && ix.Protected(rel) {
			return nil
		}
		if len(include) > 0 && !matchAny(include, rel) {
			return nil
		}
		if len(exclude) > 0 && matchAny(exclude, rel) {
			return nil
		}

		files = append(files, file{abs: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
