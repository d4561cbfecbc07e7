package builder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/todoran/sitepub/internal/tlogger"
	"github.com/todoran/sitepub/pkg/config"
)

type DiscoveryOptions struct {
	Recursive    bool
	Subdirectory string

	// ExcludedDirectories are matched against directory base names at every depth.
	ExcludedDirectories []string

	ExcludeUnderscorePrefixed bool
}

// DefaultDiscoveryOptions searches only the root directory and skips the publish directory.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		ExcludedDirectories: []string{filepath.Base(config.Config.PublishDir)},
	}
}

func (o DiscoveryOptions) excluded(name string) bool {
	for _, v := range o.ExcludedDirectories {
		if v == name {
			return true
		}
	}
	return false
}

// Discover lists the files below root whose extension matches extension,
// case-insensitively. An empty extension matches every file.
//
// Returned paths are relative to root and keep the Subdirectory prefix. They
// come back in directory-listing order, which is stable within one run but
// is not a sorting guarantee callers may rely on.
//
// Symlinks are followed and there is no cycle detection: a self-referencing
// tree is walked until the filesystem gives up.
func Discover(root, extension string, opts DiscoveryOptions) ([]string, error) {
	target := filepath.Join(root, opts.Subdirectory)

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: target}
		}
		return nil, &IOError{Op: "stat", Path: target, Err: err}
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: target}
	}

	files, err := searchDirectory(target, "", opts)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(extension)
	out := make([]string, 0, len(files))
	for _, f := range files {
		if ext != "" && strings.ToLower(filepath.Ext(f)) != ext {
			continue
		}
		if opts.ExcludeUnderscorePrefixed && strings.HasPrefix(filepath.Base(f), "_") {
			continue
		}
		out = append(out, filepath.Join(opts.Subdirectory, f))
	}

	tlogger.Debug("stage", "discover", "msg", "Files located", "path", target, "ext", extension, "count", len(out))
	return out, nil
}

// searchDirectory returns the regular files below dir, relative to the walk start.
func searchDirectory(dir, rel string, opts DiscoveryOptions) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Op: "readdir", Path: dir, Err: err}
	}

	var results []string
	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		relPath := filepath.Join(rel, entry.Name())

		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, &IOError{Op: "stat", Path: fullPath, Err: err}
		}

		switch {
		case info.IsDir():
			if !opts.Recursive || opts.excluded(entry.Name()) {
				continue
			}
			sub, err := searchDirectory(fullPath, relPath, opts)
			if err != nil {
				return nil, err
			}
			results = append(results, sub...)
		case info.Mode().IsRegular():
			results = append(results, relPath)
		}
	}

	return results, nil
}
