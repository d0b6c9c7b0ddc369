package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/elementscan/internal/pipeline"
	"github.com/go-scripts/elementscan/internal/queue"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("elementscan"))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kctx
}

func TestParseCommands(t *testing.T) {
	cli, kctx := parse(t, "--timeout", "3s", "scan", "https://example.com", "-o", "out.pdf", "--print")
	assert.Equal(t, "scan <url>", kctx.Command())
	assert.Equal(t, 3*time.Second, cli.Timeout)
	assert.Equal(t, "https://example.com", cli.Scan.URL)
	assert.True(t, filepath.IsAbs(cli.Scan.Output))
	assert.Equal(t, "out.pdf", filepath.Base(cli.Scan.Output))
	assert.True(t, cli.Scan.Print)

	cli, kctx = parse(t, "batch", "urls.txt", "-n", "3")
	assert.Equal(t, "batch <file>", kctx.Command())
	assert.Equal(t, 3, cli.Batch.Concurrency)
	assert.Equal(t, "reports", filepath.Base(cli.Batch.OutDir))

	_, kctx = parse(t, "test", "https://example.com")
	assert.Equal(t, "test <url>", kctx.Command())
}

func TestNewAppAppliesFlagsLast(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "elementscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("browser:\n  timeout: 30s\nlog_level: warn\n"), 0644))

	app, err := newApp(context.Background(), &CLI{ConfigFile: cfgPath, Timeout: 2 * time.Second, Headful: true})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, app.cfg.Browser.Timeout)
	assert.False(t, app.cfg.BrowserOptions(nil).Headless)
	assert.Equal(t, log.WarnLevel, app.logger.GetLevel())

	_, err = newApp(context.Background(), &CLI{ConfigFile: cfgPath, LogLevel: "shout"})
	assert.Error(t, err)
}

func TestLogLevelFlagOverridesBadFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "elementscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: loud\n"), 0644))

	_, err := newApp(context.Background(), &CLI{ConfigFile: cfgPath})
	assert.Error(t, err)

	app, err := newApp(context.Background(), &CLI{ConfigFile: cfgPath, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, app.logger.GetLevel())
}

func TestReadURLs(t *testing.T) {
	in := strings.NewReader("https://a.example\n\n  # staging\n  https://b.example  \n")
	urls, err := readURLs(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, urls)
}

func TestBatchJobs(t *testing.T) {
	jobs := batchJobs("reports", []string{"https://example.com/a", "https://www.example.com/b/"})
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join("reports", "example.com_a.pdf"), jobs[0].Output)
	assert.Equal(t, filepath.Join("reports", "example.com_b.pdf"), jobs[1].Output)
}

func TestBatchJobsCollidingNames(t *testing.T) {
	jobs := batchJobs("reports", []string{
		"https://example.com/a",
		"http://example.com/a",
		"https://example.com/a",
		"https://www.example.com/a/",
		"https://example.com/a-2",
	})
	require.Len(t, jobs, 4, "repeated URL scanned once")

	seen := make(map[string]bool)
	for _, j := range jobs {
		assert.False(t, seen[j.Output], "duplicate output %s", j.Output)
		seen[j.Output] = true
	}
	assert.Equal(t, filepath.Join("reports", "example.com_a.pdf"), jobs[0].Output)
	assert.Equal(t, filepath.Join("reports", "example.com_a-2.pdf"), jobs[1].Output)
	assert.Equal(t, filepath.Join("reports", "example.com_a-3.pdf"), jobs[2].Output)
	assert.Equal(t, filepath.Join("reports", "example.com_a-2-2.pdf"), jobs[3].Output)

	q := queue.New(func(j pipeline.Job) string { return j.Output })
	for _, j := range jobs {
		require.NoError(t, q.Add(j))
	}
}

func TestFormatSpinnerMessage(t *testing.T) {
	assert.Equal(t, "https://example.com", formatSpinnerMessage("https://example.com"))

	long := "https://example.com/" + strings.Repeat("x", 60) + "/end"
	got := formatSpinnerMessage(long)
	assert.True(t, strings.HasPrefix(got, "example.com..."))
	assert.True(t, strings.HasSuffix(got, "/end"))
	assert.LessOrEqual(t, len(got), 43)
}
