package server

import "github.com/todoran/sitepub/internal/server"

// Options configures the preview server.
type Options = server.Options

type Server interface {
	Start() error
}

func NewServer(opts Options) Server {
	return server.NewServer(opts)
}
