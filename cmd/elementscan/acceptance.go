package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-scripts/elementscan/internal/acceptance"
)

type TestCmd struct {
	URL   string `arg:"" help:"Page to test"`
	Suite string `help:"Robot Framework suite to run" type:"path"`
}

func (c *TestCmd) Run(app *App) error {
	r := app.cfg.Runner()
	if c.Suite != "" {
		r.Suite = c.Suite
	}

	app.logger.Info("running acceptance suite", "suite", r.Suite, "url", c.URL)
	res, err := r.Run(app.ctx, c.URL)
	if errors.Is(err, acceptance.ErrRunnerNotFound) {
		return fmt.Errorf("cannot find the %q command, make sure Robot Framework is installed and on your PATH: %w", r.Command, err)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	if !res.Passed() {
		return fmt.Errorf("acceptance suite failed with exit status %d", res.ExitCode)
	}
	fmt.Println("All tests passed.")
	return nil
}
