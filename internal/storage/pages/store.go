// Package pages saves fetched pages to the local filesystem, laid out like
// the site so a snapshot directory can be parsed offline or served as a
// mirror.
package pages

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the page store.
type Config struct {
	// BaseDir is the root directory pages are written under.
	BaseDir string `mapstructure:"dir" yaml:"dir"`
}

// Store writes page bodies under BaseDir.
type Store struct {
	baseDir string
}

// New creates a page store, creating BaseDir when needed and checking that
// it is writable.
func New(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat base directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	probe := filepath.Join(cfg.BaseDir, ".writable_test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &Store{baseDir: filepath.Clean(cfg.BaseDir)}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Put writes body for the page at locator and returns the file path, which
// is itself a valid fetch locator.
func (s *Store) Put(ctx context.Context, locator string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := RelPath(locator)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if !strings.HasPrefix(fullPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, body, 0o600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fullPath, nil
}

// RelPath maps a page URL to its slash-separated path inside a store:
// /players/a/anthoca01.html stays as is, /teams/CLE/ becomes
// teams/CLE/index.html and a query string is folded into the file name.
func RelPath(locator string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(locator))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("page locator %q must be an absolute http(s) URL", locator)
	}
	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("path traversal detected")
	}

	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if u.RawQuery != "" {
		p += "_" + strings.NewReplacer("/", "_", "&", "_", "\\", "_").Replace(u.RawQuery)
	}
	return p, nil
}
