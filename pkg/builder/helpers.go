package builder

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func copyFile(src, dst string) (int64, error) {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return 0, &IOError{Op: "stat", Path: src, Err: err}
	}

	if !sourceFileStat.Mode().IsRegular() {
		return 0, &IOError{Op: "copy", Path: src, Err: errNotRegular}
	}

	source, err := os.Open(src)
	if err != nil {
		return 0, &IOError{Op: "open", Path: src, Err: err}
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return 0, &IOError{Op: "create", Path: dst, Err: err}
	}
	defer destination.Close()

	n, err := io.Copy(destination, source)
	if err != nil {
		return n, &IOError{Op: "copy", Path: dst, Err: err}
	}
	return n, nil
}

// copyDir duplicates the tree at src into dst, overwriting files that already
// exist. Symlinks are recreated with the same target rather than followed.
func copyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{Path: src}
		}
		return &IOError{Op: "stat", Path: src, Err: err}
	}
	if !info.IsDir() {
		return &NotFoundError{Path: src}
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IOError{Op: "walk", Path: path, Err: err}
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return &IOError{Op: "rel", Path: path, Err: err}
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return &IOError{Op: "mkdir", Path: target, Err: err}
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return &IOError{Op: "readlink", Path: path, Err: err}
			}
			if err := os.Symlink(link, target); err != nil {
				return &IOError{Op: "symlink", Path: target, Err: err}
			}
			return nil
		}

		_, err = copyFile(path, target)
		return err
	})
}

// within reports whether path is dir itself or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
