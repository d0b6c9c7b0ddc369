package report

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Reading a report back must not create a pdfcpu config dir in $HOME.
	model.ConfigPath = "disable"
}

// PageCount reads a written report back and returns its page count. It
// doubles as a check that the file on disk is a well-formed PDF.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := api.PageCount(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	return n, nil
}
