package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/elementscan/internal/config"
	"github.com/go-scripts/elementscan/internal/pipeline"
	"github.com/go-scripts/elementscan/internal/writer"
)

// CLI flags structure
type CLI struct {
	ConfigFile string        `name:"config" help:"Path to configuration file" short:"c" type:"path"`
	LogLevel   string        `help:"Log level (debug, info, warn, error)"`
	Timeout    time.Duration `help:"How long to wait for the page body"`
	Headful    bool          `help:"Show the browser window"`

	Scan    ScanCmd    `cmd:"" help:"Count page elements and save a PDF report"`
	Summary SummaryCmd `cmd:"" help:"Count page elements and print them"`
	Batch   BatchCmd   `cmd:"" help:"Scan a list of pages concurrently"`
	Test    TestCmd    `cmd:"" help:"Run the acceptance suite against a page"`
}

// App is what every command runs with.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	logger *log.Logger
}

// newApp loads the configuration and overrides it with command line flags
// if provided.
func newApp(ctx context.Context, cli *CLI) (*App, error) {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, cli)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "elementscan",
		Level:           cfg.Level(),
	})
	return &App{ctx: ctx, cfg: cfg, logger: logger}, nil
}

func applyFlags(cfg *config.Config, cli *CLI) {
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.Timeout != 0 {
		cfg.Browser.Timeout = cli.Timeout
	}
	if cli.Headful {
		cfg.Browser.Headful = true
	}
}

// pipeline builds a Pipeline over Chrome, or over htmlFile when set.
func (a *App) pipeline(htmlFile, jsonDir string) (*pipeline.Pipeline, error) {
	open := pipeline.BrowserOpener(a.cfg.BrowserOptions(a.logger))
	if htmlFile != "" {
		open = pipeline.SnapshotOpener(htmlFile)
	}

	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if jsonDir == "" {
		jsonDir = a.cfg.Report.JSONDir
	}
	if jsonDir != "" {
		w, err := writer.New(jsonDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithJSON(w))
	}
	return pipeline.New(open, opts...), nil
}

func main() {
	var cli CLI

	// Parse command line flags using kong
	kctx := kong.Parse(&cli,
		kong.Name("elementscan"),
		kong.Description("Count the visual and interactive elements of a web page."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := newApp(ctx, &cli)
	if err != nil {
		log.Error("Error loading configuration", "err", err)
		os.Exit(1)
	}

	if err := kctx.Run(app); err != nil {
		app.logger.Error(err)
		stop()
		os.Exit(1)
	}
}
