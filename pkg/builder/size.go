package builder

import (
	"os"

	"github.com/pkg/errors"
)

var errNotRegular = errors.New("not a regular file")

// TotalSize sums the on-disk size of paths. It fails on the first path that
// is missing or is not a regular file; there is no partial sum.
func TotalSize(paths []string) (int64, error) {
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return 0, &IOError{Op: "stat", Path: p, Err: err}
		}
		if !info.Mode().IsRegular() {
			return 0, &IOError{Op: "stat", Path: p, Err: errNotRegular}
		}
		total += info.Size()
	}
	return total, nil
}
