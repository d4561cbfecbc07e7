package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "embed"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/todoran/sitepub/internal/tlogger"
	"github.com/todoran/sitepub/internal/watcher"
	"github.com/todoran/sitepub/pkg/builder"
	"github.com/todoran/sitepub/pkg/config"
)

//go:embed livereload.html
var liveReloadScript []byte

const livereloadPath = "/__internal/livereload"

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
		w.WriteHeader(500)
	},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Options struct {
	SourceDir  string
	PublishDir string

	// ServeDocs serves the publish directory instead of the source tree.
	ServeDocs bool
	// Build publishes once before serving. Only meaningful with ServeDocs.
	Build bool
	Watch bool

	Port        string
	Override404 string
}

type Server struct {
	opts         Options
	reloadBroker *Broker
	publisher    *builder.Publisher
}

func NewServer(opts Options) *Server {
	return &Server{
		opts:         opts,
		reloadBroker: newBroker(),
		publisher:    builder.NewPublisher(opts.SourceDir, opts.PublishDir, nil),
	}
}

func (s *Server) TriggerReload() {
	s.reloadBroker.Publish(struct{}{})
}

func (s *Server) root() string {
	if s.opts.ServeDocs {
		return s.opts.PublishDir
	}
	return s.opts.SourceDir
}

func (s *Server) Start() error {
	if s.opts.ServeDocs && s.opts.Build {
		_, err := s.publisher.Publish()
		if err != nil {
			return err
		}
	}

	if s.opts.Watch {
		w := watcher.New(s.opts.SourceDir,
			[]string{filepath.Base(s.opts.PublishDir), config.Config.ToolDir, "node_modules"},
			"**/*.{html,css,js}",
			config.Config.AssetsDir+"/**",
		)
		updates, err := w.Start()
		if err != nil {
			return err
		}

		go s.reloadBroker.Start()
		go s.reloadLoop(updates)
	}

	// We use println here so the address can be copied or opened directly from the terminal
	fmt.Println("Listening on http://localhost:" + s.opts.Port + " serving " + s.root())

	return http.ListenAndServe(":"+s.opts.Port, s.Router())
}

// reloadLoop waits for changes to settle for 500ms, rebuilds the publish
// directory when serving it, then tells the browsers to reload.
func (s *Server) reloadLoop(updates <-chan string) {
	for {
		_, ok := <-updates
		if !ok {
			return
		}
	rootFor:
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
				continue
			case <-time.After(time.Millisecond * 500):
				break rootFor
			}
		}

		if s.opts.ServeDocs {
			_, err := s.publisher.Publish()
			if err != nil {
				tlogger.Error("msg", "Rebuild failed, keeping browsers on the last build", "err", err)
				continue
			}
		}
		s.TriggerReload()
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	if s.opts.Watch {
		r.HandleFunc(livereloadPath, s.livereloadHandler)
	}
	r.PathPrefix("/").HandlerFunc(s.fileServer(s.root(), s.opts.Override404))
	return r
}

// resolve maps a request path to a file below dir. Directories serve their
// index.html and extensionless paths fall back to the matching .html page.
func resolve(dir, upath string) (string, bool, error) {
	const indexPage = "index.html"

	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
	}
	clean := path.Clean(upath)
	fullName := filepath.Join(dir, filepath.FromSlash(clean))

	candidates := []string{fullName, filepath.Join(fullName, indexPage)}
	if clean != "/" {
		// the root has no name of its own; <dir>.html would sit outside dir
		candidates = []string{fullName, fullName + ".html", filepath.Join(fullName, indexPage)}
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil {
			if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
				continue
			}
			return "", false, err
		}
		if !info.IsDir() {
			return c, true, nil
		}
	}
	return "", false, nil
}

func (s *Server) fileServer(dir string, override404 string) func(http.ResponseWriter, *http.Request) {
	if override404 != "" && !strings.HasPrefix(override404, "/") {
		override404 = "/" + override404
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		fullName, valid, err := resolve(dir, r.URL.Path)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file: " + err.Error()))
			return
		}

		if !valid && override404 != "" && r.URL.Path != override404 {
			status = http.StatusNotFound
			fullName, valid, err = resolve(dir, override404)
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't open file: " + err.Error()))
				return
			}
		}

		if !valid {
			w.WriteHeader(404)
			w.Write([]byte("404 page not found"))
			return
		}

		content, err := os.Open(fullName)
		if err != nil {
			w.WriteHeader(500)
			w.Write([]byte("Internal error: can't open file"))
			return
		}
		defer content.Close()

		ctype := mime.TypeByExtension(filepath.Ext(fullName))
		if ctype == "" {
			// read a chunk to decide between utf-8 text and binary
			var buf [512]byte
			n, _ := io.ReadFull(content, buf[:])
			ctype = http.DetectContentType(buf[:n])
			_, err := content.Seek(0, io.SeekStart) // rewind to output whole file
			if err != nil {
				w.WriteHeader(500)
				w.Write([]byte("Internal error: can't seek file: " + err.Error()))
				return
			}
		}
		w.Header().Set("Content-Type", ctype)
		w.WriteHeader(status)
		io.Copy(w, content)
		if s.opts.Watch && strings.HasPrefix(ctype, "text/html") {
			_, err = w.Write(liveReloadScript)
			if err != nil {
				tlogger.Error("msg", "could not live reload", "error", err)
			}
		}
	}
}

func (s *Server) livereloadHandler(w http.ResponseWriter, r *http.Request) {
	tlogger.Debug("msg", "WS Established")

	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer c.Close()
	waitCh := s.reloadBroker.Subscribe()
	defer s.reloadBroker.Unsubscribe(waitCh)

	_, ok := <-waitCh
	if !ok {
		return
	}
	err = c.WriteMessage(websocket.TextMessage, []byte("reload"))
	if err != nil {
		tlogger.Warn("msg", "Reload socket error", "error", err)
	}
}
