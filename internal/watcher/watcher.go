package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/todoran/sitepub/internal/tlogger"
)

// Watcher reports changes to site sources below a root directory.
type Watcher struct {
	root     string
	ignore   map[string]struct{}
	patterns []string
}

// New returns a watcher for root. Directories whose base name is in ignore,
// or starts with a dot, are never watched. Only paths matching one of the
// doublestar patterns, relative to root, are reported.
func New(root string, ignore []string, patterns ...string) *Watcher {
	w := &Watcher{
		root:     root,
		ignore:   make(map[string]struct{}, len(ignore)),
		patterns: patterns,
	}
	for _, v := range ignore {
		w.ignore[v] = struct{}{}
	}
	return w
}

// Matches reports whether rel, a slash or OS separated path relative to the
// root, is a watched source file.
func (w *Watcher) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) skipDir(name string) bool {
	if _, ok := w.ignore[name]; ok {
		return true
	}
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

func (w *Watcher) addTree(wch *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return wch.Add(path)
	})
}

// Start registers the tree and returns a channel of changed paths. The
// channel is closed when the underlying fsnotify watcher stops.
func (w *Watcher) Start() (<-chan string, error) {
	wch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}

	err = w.addTree(wch, w.root)
	if err != nil {
		wch.Close()
		return nil, errors.Wrapf(err, "watch %s", w.root)
	}

	outCh := make(chan string, 100)

	go func() {
		defer close(outCh)
		for {
			select {
			case event, ok := <-wch.Events:
				if !ok {
					return
				}
				w.handle(wch, event, outCh)
			case err, ok := <-wch.Errors:
				if !ok {
					return
				}
				tlogger.Warn("msg", "Watcher error", "err", err)
			}
		}
	}()

	return outCh, nil
}

func (w *Watcher) handle(wch *fsnotify.Watcher, event fsnotify.Event, outCh chan<- string) {
	tlogger.Debug("msg", "Watcher event", "event", event.String())

	if event.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !w.skipDir(fi.Name()) {
			if err := w.addTree(wch, event.Name); err != nil {
				tlogger.Warn("msg", "Can't watch new folder", "path", event.Name, "err", err)
			}
			return
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.Matches(rel) {
		return
	}

	tlogger.Info("msg", "Detected change", "path", event.Name)
	select {
	case outCh <- event.Name:
	default:
		// a rebuild is already pending
	}
}
