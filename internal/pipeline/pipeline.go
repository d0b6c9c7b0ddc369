// Package pipeline runs one analysis end to end: open the page, aggregate
// the catalog into a Counts Document and render the PDF report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/go-scripts/elementscan/internal/browser"
	"github.com/go-scripts/elementscan/internal/catalog"
	"github.com/go-scripts/elementscan/internal/counts"
	"github.com/go-scripts/elementscan/internal/htmldom"
	"github.com/go-scripts/elementscan/internal/report"
	"github.com/go-scripts/elementscan/internal/writer"
)

// Session is an open page the catalog can be evaluated against.
type Session interface {
	catalog.Querier
	Close() error
}

// Opener opens a Session on url.
type Opener func(ctx context.Context, url string) (Session, error)

// BrowserOpener opens pages in headless Chrome.
func BrowserOpener(opts browser.Options) Opener {
	return func(ctx context.Context, url string) (Session, error) {
		s, err := browser.Open(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// SnapshotOpener evaluates the saved HTML file at path in place of the
// live page. url is still used to resolve relative links.
func SnapshotOpener(path string) Opener {
	return func(_ context.Context, url string) (Session, error) {
		s, err := htmldom.Load(path, url)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Job is one page to analyze and the file its report goes to.
type Job struct {
	URL    string
	Output string
}

// Result is the outcome of a Job. Document is set whenever aggregation
// succeeded, even if writing the report failed.
type Result struct {
	Job      Job
	RunID    string
	Document *counts.Document
	Pages    int
	JSONPath string
	Elapsed  time.Duration
	Err      error
}

// Record flattens the result for a batch summary.
func (r Result) Record() writer.Record {
	rec := writer.Record{RunID: r.RunID, URL: r.Job.URL, Output: r.Job.Output, Pages: r.Pages}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// Pipeline holds what every run shares.
type Pipeline struct {
	open    Opener
	catalog catalog.Catalog
	layout  report.Layout
	json    *writer.FileWriter
	logger  *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithCatalog(c catalog.Catalog) Option { return func(p *Pipeline) { p.catalog = c } }

func WithLayout(l report.Layout) Option { return func(p *Pipeline) { p.layout = l } }

// WithJSON also dumps each document as JSON through w.
func WithJSON(w *writer.FileWriter) Option { return func(p *Pipeline) { p.json = w } }

func WithLogger(l *log.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// New creates a Pipeline over the default catalog and layout.
func New(open Opener, opts ...Option) *Pipeline {
	p := &Pipeline{
		open:    open,
		catalog: catalog.Default(),
		layout:  report.DefaultLayout(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze opens url and aggregates the catalog. The session is closed on
// every path; a close error is joined into the returned error.
func (p *Pipeline) Analyze(ctx context.Context, url string) (doc *counts.Document, err error) {
	s, err := p.open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", cerr))
		}
	}()

	doc, err = catalog.Aggregate(ctx, s, p.catalog)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", url, err)
	}
	return doc, nil
}

// Run analyzes job.URL and writes the report to job.Output.
func (p *Pipeline) Run(ctx context.Context, job Job) (res Result) {
	res = Result{Job: job, RunID: uuid.NewString()}
	logger := p.logger.With("run", res.RunID[:8], "url", job.URL)
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	logger.Debug("analyzing page")
	doc, err := p.Analyze(ctx, job.URL)
	if err != nil {
		logger.Error("analysis failed", "err", err)
		res.Err = err
		return res
	}
	res.Document = doc
	logger.Info("page analyzed", "categories", doc.Len())

	pages, err := report.RenderFile(doc, job.URL, job.Output, p.layout)
	if err != nil {
		logger.Error("report not written", "output", job.Output, "err", err)
		res.Err = err
		return res
	}
	res.Pages = pages
	logger.Info("report written", "output", job.Output, "pages", pages)

	if p.json != nil {
		path, err := p.json.WriteDocument(job.URL, doc)
		if err != nil {
			logger.Error("json dump failed", "err", err)
			res.Err = err
			return res
		}
		res.JSONPath = path
		logger.Debug("json written", "path", path)
	}
	return res
}

// Background runs job on its own goroutine. The channel receives exactly
// one Result and is then closed.
func (p *Pipeline) Background(ctx context.Context, job Job) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		done <- p.Run(ctx, job)
	}()
	return done
}
