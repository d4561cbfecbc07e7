package main

import (
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/todoran/sitepub/internal/tlogger"
	"github.com/todoran/sitepub/pkg/builder"
	"github.com/todoran/sitepub/pkg/config"
	"github.com/todoran/sitepub/pkg/server"
)

var CLI struct {
	Build CommandBuild `cmd:"" default:"withargs" aliases:"b" help:"Minify the site into the publish directory (default)."`
	Serve CommandServe `cmd:"" aliases:"s" help:"Run a local preview server."`

	ConfigFile string `short:"c" help:"configuration file path (optional)"`
}

type CommandBuild struct {
	SrcDir     string `help:"Source directory."`
	PublishDir string `help:"Publish directory, wiped on every run."`
	NoMinify   bool   `help:"Copy html, css and js without minifying."`
	JSON       bool   `name:"json" help:"Print the size report as JSON."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandServe struct {
	Docs  bool `short:"d" help:"Serve the publish directory instead of the source tree."`
	Build bool `negatable:"" default:"true" help:"Publish before serving with --docs."`
	Watch bool `negatable:"" default:"true" help:"Watch sources and live reload the browser."`

	Port int `short:"p" help:"Listener port"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sitepub"),
		kong.Description("Build and preview tool for the portfolio site."),
		kong.UsageOnError(),
	)

	err := config.Init(CLI.ConfigFile)
	if err != nil {
		tlogger.Error("msg", "Can't load configuration", "err", err)
		os.Exit(1)
	}

	err = ctx.Run(ctx)
	if err != nil {
		tlogger.Error("msg", "Command failed", "command", ctx.Command(), "err", err)
		os.Exit(1)
	}
}

func applyVerbose(v int) {
	switch v {
	case 0:
		tlogger.ApplyLogLevel("info")
	case 1:
		tlogger.ApplyLogLevel("debug")
	default:
		tlogger.ApplyLogLevel("all")
	}
}

func roots() (string, string) {
	cwd, err := os.Getwd()
	if err != nil {
		tlogger.Warn("msg", "Can't read working directory", "err", err)
	}
	return builder.ResolveRoots(cwd, config.Config)
}

func (r *CommandBuild) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	src, dest := roots()
	if r.SrcDir != "" {
		src = r.SrcDir
	}
	if r.PublishDir != "" {
		dest = r.PublishDir
	}

	var m builder.Minifier
	if r.NoMinify {
		m = &builder.NOOPMinifier{}
	}

	publisher := builder.NewPublisher(src, dest, m)

	report, err := publisher.Publish()
	if err != nil {
		return err
	}

	if r.JSON {
		return report.WriteJSON(os.Stdout)
	}
	return report.Print(os.Stdout)
}

func (r *CommandServe) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	if r.Port <= 0 {
		r.Port = config.Config.ServeConfig.Port
	}

	src, dest := roots()

	serv := server.NewServer(server.Options{
		SourceDir:   src,
		PublishDir:  dest,
		ServeDocs:   r.Docs,
		Build:       r.Build,
		Watch:       r.Watch,
		Port:        strconv.Itoa(r.Port),
		Override404: config.Config.ServeConfig.Redirect404,
	})

	return serv.Start()
}
