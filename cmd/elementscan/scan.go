package main

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/go-scripts/elementscan/internal/pipeline"
	"github.com/go-scripts/elementscan/internal/summary"
)

type ScanCmd struct {
	URL     string `arg:"" help:"Page to analyze"`
	Output  string `short:"o" help:"Where to save the PDF report" type:"path"`
	HTML    string `help:"Analyze this saved HTML file instead of loading the page" type:"existingfile"`
	JSONDir string `name:"json" help:"Also write the counts as JSON into this directory" type:"path"`
	Print   bool   `short:"p" help:"Print the counts after saving the report"`
}

func (c *ScanCmd) Run(app *App) error {
	output := c.Output
	if output == "" {
		output = app.cfg.Report.Output
	}
	p, err := app.pipeline(c.HTML, c.JSONDir)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Analyzing " + formatSpinnerMessage(c.URL)
	s.Start()
	res := <-p.Background(app.ctx, pipeline.Job{URL: c.URL, Output: output})
	s.Stop()

	if res.Err != nil {
		return res.Err
	}
	fmt.Printf("Report saved to %s (%d pages)\n", output, res.Pages)
	if res.JSONPath != "" {
		fmt.Printf("Counts written to %s\n", res.JSONPath)
	}
	if c.Print {
		return summary.Print(os.Stdout, res.Document, false)
	}
	return nil
}

type SummaryCmd struct {
	URL     string `arg:"" help:"Page to analyze"`
	HTML    string `help:"Analyze this saved HTML file instead of loading the page" type:"existingfile"`
	Verbose bool   `short:"v" help:"Draw every extracted table"`
}

func (c *SummaryCmd) Run(app *App) error {
	p, err := app.pipeline(c.HTML, "")
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Analyzing " + formatSpinnerMessage(c.URL)
	s.Start()
	doc, err := p.Analyze(app.ctx, c.URL)
	s.Stop()
	if err != nil {
		return err
	}
	return summary.Print(os.Stdout, doc, c.Verbose)
}

// formatSpinnerMessage keeps long URLs to the host and the tail of the path.
func formatSpinnerMessage(urlStr string) string {
	maxLen := 40
	if len(urlStr) <= maxLen {
		return urlStr
	}
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "..." + urlStr[len(urlStr)-maxLen:]
	}
	domain, path := u.Host, u.Path
	if keep := maxLen - len(domain) - 3; keep <= 0 {
		path = ""
	} else if len(path) > keep {
		path = "..." + path[len(path)-keep:]
	}
	return domain + path
}
