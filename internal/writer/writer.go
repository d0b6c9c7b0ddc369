package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-scripts/elementscan/internal/counts"
)

// Record is one line of a batch summary.
type Record struct {
	RunID  string `json:"run_id"`
	URL    string `json:"url"`
	Output string `json:"output"`
	Pages  int    `json:"pages"`
	Error  string `json:"error,omitempty"`
}

// FileWriter handles writing Counts Documents to JSON files
type FileWriter struct {
	outputDir string
}

// New creates a new FileWriter instance
func New(outputDir string) (*FileWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: outputDir}, nil
}

// WriteDocument writes the counts for url and returns the file it wrote.
func (w *FileWriter) WriteDocument(url string, doc *counts.Document) (string, error) {
	path := filepath.Join(w.outputDir, Filename(url)+".json")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(struct {
		URL    string           `json:"url"`
		Counts *counts.Document `json:"counts"`
	}{url, doc}); err != nil {
		return "", fmt.Errorf("failed to encode counts: %w", err)
	}

	return path, nil
}

// WriteSummary writes the outcome of every job in a batch
func (w *FileWriter) WriteSummary(records []Record) (string, error) {
	path := filepath.Join(w.outputDir, "summary.json")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	return path, nil
}

// Filename creates a safe file name, without extension, from a URL
func Filename(url string) string {
	url = strings.TrimPrefix(url, "http://")
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "www.")
	url = strings.TrimSuffix(url, "/")

	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	for _, char := range unsafe {
		url = strings.ReplaceAll(url, char, "_")
	}

	if url == "" {
		return "page"
	}
	return url
}
