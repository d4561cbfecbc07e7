package builder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/todoran/sitepub/pkg/config"
)

func TestResolveRoots(t *testing.T) {
	conf := config.DefaultConfiguration()

	src, dest := ResolveRoots(filepath.Join("home", "me", "site"), conf)
	assert.Equal(t, ".", src)
	assert.Equal(t, "docs", dest)

	src, dest = ResolveRoots(filepath.Join("home", "me", "site", "deployment"), conf)
	assert.Equal(t, "..", src)
	assert.Equal(t, filepath.Join("..", "docs"), dest)

	conf.ToolDir = ""
	src, dest = ResolveRoots(filepath.Join("home", "me", "site", "deployment"), conf)
	assert.Equal(t, ".", src)
	assert.Equal(t, "docs", dest)
}
