package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-scripts/elementscan/internal/pipeline"
	"github.com/go-scripts/elementscan/internal/progress"
	"github.com/go-scripts/elementscan/internal/writer"
)

type BatchCmd struct {
	File        string `arg:"" help:"File with one URL per line, or - for stdin"`
	OutDir      string `short:"d" help:"Directory for the reports and summary.json" default:"reports" type:"path"`
	Concurrency int    `short:"n" help:"Number of pages analyzed at once"`
	JSON        bool   `help:"Also write each page's counts as JSON"`
}

func (c *BatchCmd) Run(app *App) error {
	in := io.Reader(os.Stdin)
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	urls, err := readURLs(in)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs in %s", c.File)
	}

	w, err := writer.New(c.OutDir)
	if err != nil {
		return err
	}
	jsonDir := ""
	if c.JSON {
		jsonDir = filepath.Join(c.OutDir, "json")
	}
	p, err := app.pipeline("", jsonDir)
	if err != nil {
		return err
	}

	limit := c.Concurrency
	if limit == 0 {
		limit = app.cfg.Batch.Concurrency
	}
	jobs := batchJobs(c.OutDir, urls)
	tracker := progress.New(os.Stderr, len(jobs))
	results, err := p.RunBatch(app.ctx, jobs, limit, tracker)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	records := make([]writer.Record, len(results))
	for i, res := range results {
		records[i] = res.Record()
	}
	path, err := w.WriteSummary(records)
	if err != nil {
		return err
	}
	fmt.Printf("%d of %d pages scanned, summary in %s\n", len(results)-tracker.Failed(), len(results), path)
	if n := tracker.Failed(); n > 0 {
		return fmt.Errorf("%d pages failed", n)
	}
	return nil
}

// readURLs returns the non-blank lines of r, skipping # comments.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

// batchJobs names each report after its URL inside dir. Repeated URLs are
// scanned once and names that collide get a numeric suffix.
func batchJobs(dir string, urls []string) []pipeline.Job {
	var jobs []pipeline.Job
	seen := make(map[string]bool)
	names := make(map[string]bool)
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		base := writer.Filename(u)
		name := base
		for i := 2; names[name]; i++ {
			name = fmt.Sprintf("%s-%d", base, i)
		}
		names[name] = true
		jobs = append(jobs, pipeline.Job{URL: u, Output: filepath.Join(dir, name+".pdf")})
	}
	return jobs
}
