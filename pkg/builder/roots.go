package builder

import (
	"path/filepath"

	"github.com/todoran/sitepub/pkg/config"
)

// ResolveRoots returns the source and publish directories for a run started
// in cwd. Running from inside the tool directory resolves both against its
// parent, so the tool behaves the same from either place.
func ResolveRoots(cwd string, conf *config.Configuration) (src, dest string) {
	src, dest = conf.SrcDir, conf.PublishDir
	if conf.ToolDir != "" && filepath.Base(cwd) == conf.ToolDir {
		if !filepath.IsAbs(src) {
			src = filepath.Join("..", src)
		}
		if !filepath.IsAbs(dest) {
			dest = filepath.Join("..", dest)
		}
	}
	return src, dest
}
