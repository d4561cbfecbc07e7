package builder

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTDMinifier(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"style.css":  "a {\n  color : red ;\n}\n",
		"main.js":    "var  a = 1 ;\n\n// comment\nconsole.log( a );\n",
		"index.html": "<html>\n  <body>\n    <p>hi</p>\n  </body>\n</html>\n",
		"Upper.CSS":  "b {  margin : 0 ; }",
	})

	m := NewTDMinifier(MinifyOptions{})

	out, err := m.Minify(filepath.Join(root, "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "a{color:red}", string(out))

	out, err = m.Minify(filepath.Join(root, "Upper.CSS"))
	require.NoError(t, err)
	assert.Equal(t, "b{margin:0}", string(out))

	out, err = m.Minify(filepath.Join(root, "main.js"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "comment")
	assert.NotContains(t, string(out), "  ")

	out, err = m.Minify(filepath.Join(root, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<p>hi</p>")
	assert.Contains(t, string(out), "<html>")
	assert.NotContains(t, string(out), "\n  ")
}

func TestTDMinifierKeepsURLReferences(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"css/style.css":  ".hero { background: url(\"../assets/bg.png\"); }",
		"assets/bg.png":  "\x89PNG\r\n\x1a\nfake",
		"css/remote.css": ".x { background: url(https://example.com/a.png); }",
	})

	out, err := NewTDMinifier(MinifyOptions{}).Minify(filepath.Join(root, "css", "style.css"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "../assets/bg.png")
	assert.NotContains(t, string(out), "data:")

	out, err = NewTDMinifier(MinifyOptions{InlineMaxSize: 4096}).Minify(filepath.Join(root, "css", "style.css"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "data:image/png")
	assert.NotContains(t, string(out), "bg.png")

	out, err = NewTDMinifier(MinifyOptions{InlineMaxSize: 2}).Minify(filepath.Join(root, "css", "style.css"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "../assets/bg.png", "targets above the threshold stay references")

	out, err = NewTDMinifier(MinifyOptions{InlineMaxSize: 4096}).Minify(filepath.Join(root, "css", "remote.css"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "https://example.com/a.png")
}

func TestTDMinifierErrors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"notes.txt": "plain"})
	m := NewTDMinifier(MinifyOptions{})

	_, err := m.Minify(filepath.Join(root, "notes.txt"))
	var minErr *MinifyError
	require.True(t, errors.As(err, &minErr))
	assert.Equal(t, filepath.Join(root, "notes.txt"), minErr.Path)

	_, err = m.Minify(filepath.Join(root, "missing.css"))
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
}

func TestNOOPMinifier(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.css": "a {  color: red; }"})

	out, err := (&NOOPMinifier{}).Minify(filepath.Join(root, "a.css"))
	require.NoError(t, err)
	assert.Equal(t, "a {  color: red; }", string(out))
}
