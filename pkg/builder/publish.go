package builder

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/todoran/sitepub/internal/tlogger"
	"github.com/todoran/sitepub/pkg/config"
)

var (
	errDestContainsSrc = errors.New("publish directory contains the source directory")
	errDestOverlapsSrc = errors.New("publish directory overlaps a source folder")
)

// Init is idempotent, multiple calls will only initialize the publisher once
func (p *Publisher) Init() error {
	if p.initialized {
		return nil
	}

	if p.srcDir == "" {
		p.srcDir = config.Config.SrcDir
	}
	if p.destDir == "" {
		p.destDir = config.Config.PublishDir
	}
	p.assetsDir = config.Config.AssetsDir
	p.toolDir = config.Config.ToolDir
	p.markerFile = config.Config.MarkerFile
	p.markerContent = config.Config.MarkerContent

	if p.minifier == nil {
		p.minifier = NewTDMinifier(MinifyOptions{InlineMaxSize: config.Config.InlineMaxSize})
	}

	if f, err := os.Stat(p.srcDir); err != nil || !f.IsDir() {
		tlogger.Error("msg", "Src folder not found", "path", p.srcDir, "err", err)
		return &NotFoundError{Path: p.srcDir}
	}

	p.initialized = true
	return nil
}

// Publish wipes the publish directory and regenerates it: marker file,
// minified html, css and js, then a verbatim copy of the assets folder.
// The first failure aborts the run and may leave the destination partially
// written; the next run starts from a clean directory again.
func (p *Publisher) Publish() (*Report, error) {
	err := p.Init()
	if err != nil {
		return nil, err
	}

	tlogger.Info("msg", "Publishing started", "src", p.srcDir, "dest", p.destDir)

	err = p.clean()
	if err != nil {
		return nil, err
	}

	err = p.scaffold()
	if err != nil {
		return nil, err
	}

	files, err := p.discover()
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		err = p.processFile(f)
		if err != nil {
			return nil, err
		}
	}

	err = p.copyAssets()
	if err != nil {
		return nil, err
	}

	report, err := p.report(files)
	if err != nil {
		return nil, err
	}

	tlogger.Info("msg", "Publishing finished", "src", p.srcDir, "dest", p.destDir, "files", report.Files)
	return report, nil
}

func (p *Publisher) clean() error {
	absSrc, err := filepath.Abs(p.srcDir)
	if err != nil {
		return &IOError{Op: "abs", Path: p.srcDir, Err: err}
	}
	absDest, err := filepath.Abs(p.destDir)
	if err != nil {
		return &IOError{Op: "abs", Path: p.destDir, Err: err}
	}
	if within(absSrc, absDest) {
		tlogger.Error("stage", "setup", "msg", "Refusing to clear publish folder", "path", p.destDir, "err", errDestContainsSrc)
		return &IOError{Op: "clean", Path: p.destDir, Err: errDestContainsSrc}
	}
	for _, dir := range []string{p.assetsDir, p.toolDir} {
		if dir == "" {
			continue
		}
		absDir := filepath.Join(absSrc, dir)
		if within(absDest, absDir) || within(absDir, absDest) {
			tlogger.Error("stage", "setup", "msg", "Refusing to clear publish folder", "path", p.destDir, "overlaps", absDir, "err", errDestOverlapsSrc)
			return &IOError{Op: "clean", Path: p.destDir, Err: errDestOverlapsSrc}
		}
	}

	tlogger.Info("stage", "setup", "msg", "Clearing publish folder", "path", p.destDir)
	err = os.RemoveAll(p.destDir)
	if err != nil {
		tlogger.Error("stage", "setup", "msg", "Failed to remove publish folder", "path", p.destDir, "err", err)
		return &IOError{Op: "remove", Path: p.destDir, Err: err}
	}

	err = os.MkdirAll(p.destDir, 0755)
	if err != nil {
		tlogger.Error("stage", "setup", "msg", "Failed to create publish folder", "path", p.destDir, "err", err)
		return &IOError{Op: "mkdir", Path: p.destDir, Err: err}
	}
	return nil
}

func (p *Publisher) scaffold() error {
	path := filepath.Join(p.destDir, p.markerFile)

	tlogger.Info("stage", "setup", "msg", "Writing marker file", "path", path)
	err := os.WriteFile(path, []byte(p.markerContent), 0644)
	if err != nil {
		tlogger.Error("stage", "setup", "msg", "Failed to write marker file", "path", path, "err", err)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// discover returns html, css and js files in that order.
func (p *Publisher) discover() ([]string, error) {
	publishName := filepath.Base(p.destDir)

	opts := DiscoveryOptions{
		Recursive:           true,
		ExcludedDirectories: []string{publishName},
	}
	jsOpts := DiscoveryOptions{
		Recursive:           true,
		ExcludedDirectories: []string{publishName, p.toolDir},
	}

	var files []string
	for _, q := range []struct {
		ext  string
		opts DiscoveryOptions
	}{
		{".html", opts},
		{".css", opts},
		{".js", jsOpts},
	} {
		found, err := Discover(p.srcDir, q.ext, q.opts)
		if err != nil {
			tlogger.Error("stage", "discover", "msg", "Failed to list files", "path", p.srcDir, "ext", q.ext, "err", err)
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (p *Publisher) processFile(rel string) error {
	srcFile := filepath.Join(p.srcDir, rel)
	destFile := filepath.Join(p.destDir, rel)

	mini, err := p.minifier.Minify(srcFile)
	if err != nil {
		tlogger.Error("stage", "minify", "msg", "Error minifying file", "path", srcFile, "err", err)
		return err
	}
	tlogger.Debug("stage", "minify", "msg", "read and minified", "path", srcFile)

	err = os.MkdirAll(filepath.Dir(destFile), 0755)
	if err != nil {
		tlogger.Error("stage", "copy", "msg", "Failed to create folder", "path", filepath.Dir(destFile), "err", err)
		return &IOError{Op: "mkdir", Path: filepath.Dir(destFile), Err: err}
	}

	err = os.WriteFile(destFile, mini, 0644)
	if err != nil {
		tlogger.Error("stage", "copy", "msg", "Failed to write file", "path", destFile, "err", err)
		return &IOError{Op: "write", Path: destFile, Err: err}
	}
	tlogger.Info("stage", "copy", "src", srcFile, "dest", destFile)
	return nil
}

func (p *Publisher) copyAssets() error {
	src := filepath.Join(p.srcDir, p.assetsDir)
	dest := filepath.Join(p.destDir, p.assetsDir)

	tlogger.Info("stage", "assets", "msg", "Copying assets", "src", src, "dest", dest)
	err := copyDir(src, dest)
	if err != nil {
		tlogger.Error("stage", "assets", "msg", "Failed to copy assets", "path", src, "err", err)
		return err
	}
	return nil
}

func (p *Publisher) report(files []string) (*Report, error) {
	destAssets := filepath.Join(p.destDir, p.assetsDir)
	assets, err := Discover(destAssets, "", DiscoveryOptions{Recursive: true})
	if err != nil {
		tlogger.Error("stage", "report", "msg", "Failed to list assets", "path", destAssets, "err", err)
		return nil, err
	}

	srcFiles := make([]string, len(files))
	destFiles := make([]string, len(files))
	assetFiles := make([]string, len(assets))
	for i, f := range files {
		srcFiles[i] = filepath.Join(p.srcDir, f)
		destFiles[i] = filepath.Join(p.destDir, f)
	}
	for i, f := range assets {
		assetFiles[i] = filepath.Join(destAssets, f)
	}

	r := &Report{Files: len(files)}

	r.AssetBytes, err = TotalSize(assetFiles)
	if err != nil {
		tlogger.Error("stage", "report", "msg", "failed while calculating size", "path", destAssets, "err", err)
		return nil, err
	}
	r.RawBytes, err = TotalSize(srcFiles)
	if err != nil {
		tlogger.Error("stage", "report", "msg", "failed while calculating size", "path", p.srcDir, "err", err)
		return nil, err
	}
	r.MinifiedBytes, err = TotalSize(destFiles)
	if err != nil {
		tlogger.Error("stage", "report", "msg", "failed while calculating size", "path", p.destDir, "err", err)
		return nil, err
	}

	return r, nil
}
