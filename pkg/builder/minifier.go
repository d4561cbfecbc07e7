package builder

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/todoran/sitepub/internal/tlogger"
)

// Minifier turns the file at path into its minified bytes.
type Minifier interface {
	Minify(path string) ([]byte, error)
}

type MinifyOptions struct {
	// InlineMaxSize is the largest css url() target, in bytes, embedded as a
	// data URI. Zero keeps every url() a reference.
	InlineMaxSize int64
}

var mediaTypes = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".svg":  "image/svg+xml",
	".json": "application/json",
}

var cssURLRegexp = regexp.MustCompile(`url\(\s*['"]?([^'"()\s]+)['"]?\s*\)`)

type TDMinifier struct {
	Minifier *minify.M
	opts     MinifyOptions
}

func NewTDMinifier(opts MinifyOptions) *TDMinifier {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)

	return &TDMinifier{
		Minifier: m,
		opts:     opts,
	}
}

func (m *TDMinifier) Minify(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	mediatype, ok := mediaTypes[ext]
	if !ok {
		return nil, &MinifyError{Path: path, Err: errors.Errorf("no minifier for extension %q", ext)}
	}

	if mediatype == "text/css" && m.opts.InlineMaxSize > 0 {
		src = m.inlineURLs(path, src)
	}

	out, err := m.Minifier.Bytes(mediatype, src)
	if err != nil {
		return nil, &MinifyError{Path: path, Err: err}
	}
	return out, nil
}

// inlineURLs replaces relative url() targets no larger than InlineMaxSize by
// base64 data URIs. Targets that can't be read are left untouched.
func (m *TDMinifier) inlineURLs(path string, src []byte) []byte {
	dir := filepath.Dir(path)

	return cssURLRegexp.ReplaceAllFunc(src, func(match []byte) []byte {
		ref := string(cssURLRegexp.FindSubmatch(match)[1])
		if !isLocalRef(ref) {
			return match
		}

		target := filepath.Join(dir, filepath.FromSlash(ref))
		info, err := os.Stat(target)
		if err != nil || !info.Mode().IsRegular() || info.Size() > m.opts.InlineMaxSize {
			return match
		}

		ctype := mime.TypeByExtension(filepath.Ext(target))
		if ctype == "" {
			return match
		}

		data, err := os.ReadFile(target)
		if err != nil {
			tlogger.Warn("stage", "minify", "msg", "can't inline url", "sourcefile", path, "expectedfile", target, "err", err)
			return match
		}

		tlogger.Debug("stage", "minify", "msg", "inlined url", "sourcefile", path, "expectedfile", target, "size", len(data))
		return []byte("url(data:" + ctype + ";base64," + base64.StdEncoding.EncodeToString(data) + ")")
	})
}

func isLocalRef(ref string) bool {
	if strings.ContainsAny(ref, "?#") {
		return false
	}
	for _, prefix := range []string{"data:", "http:", "https:", "//", "/"} {
		if strings.HasPrefix(ref, prefix) {
			return false
		}
	}
	return true
}

// NOOPMinifier returns file contents unchanged.
type NOOPMinifier struct {
}

func (m *NOOPMinifier) Minify(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return b, nil
}
