package builder

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.css":       "a{}",
		"a.CSS":       "a{}",
		"a.scss":      "a{}",
		"docs/b.css":  "b{}",
		"sub/c.css":   "c{}",
		"sub/c.html":  "<p>",
		"sub/d/e.Css": "e{}",
	})

	files, err := Discover(root, ".css", DiscoveryOptions{
		Recursive:           true,
		ExcludedDirectories: []string{"docs"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.css", "a.CSS", "sub/c.css", "sub/d/e.Css"}, toSlash(files))
}

func TestDiscoverNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html":     "",
		"pages/one.html": "",
	})

	files, err := Discover(root, ".html", DefaultDiscoveryOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, toSlash(files))
}

func TestDiscoverExcludedAtDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"js/app.js":                 "",
		"js/deployment/build.js":    "",
		"deployment/build.js":       "",
		"js/vendor/lib/vendor.js":   "",
		"js/vendor/deployment/x.js": "",
	})

	files, err := Discover(root, ".js", DiscoveryOptions{
		Recursive:           true,
		ExcludedDirectories: []string{"deployment"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"js/app.js", "js/vendor/lib/vendor.js"}, toSlash(files))
}

func TestDiscoverUnderscorePrefixed(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_partial.css":    "",
		"main.css":        "",
		"_dir/inside.css": "",
	})

	files, err := Discover(root, ".css", DiscoveryOptions{Recursive: true, ExcludeUnderscorePrefixed: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.css", "_dir/inside.css"}, toSlash(files))

	files, err = Discover(root, ".css", DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"_partial.css", "main.css", "_dir/inside.css"}, toSlash(files))
}

func TestDiscoverSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"css/site.css":       "",
		"css/theme/dark.css": "",
		"other.css":          "",
	})

	files, err := Discover(root, ".css", DiscoveryOptions{Recursive: true, Subdirectory: "css"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"css/site.css", "css/theme/dark.css"}, toSlash(files))
}

func TestDiscoverEmptyExtensionMatchesAll(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"img/a.png": "x",
		"fonts/b":   "x",
		"c.woff2":   "x",
	})

	files, err := Discover(root, "", DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"img/a.png", "fonts/b", "c.woff2"}, toSlash(files))
}

func TestDiscoverMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nope")

	files, err := Discover(root, ".css", DiscoveryOptions{Recursive: true})
	require.Error(t, err)
	assert.Nil(t, files)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, root, nf.Path)
}

func TestDiscoverRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.css": ""})

	_, err := Discover(filepath.Join(root, "file.css"), ".css", DiscoveryOptions{})
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}
