// Package report lays a Counts Document out as a paginated PDF.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-scripts/elementscan/internal/counts"
)

// Render draws doc onto c under a heading naming title (the analyzed URL)
// and saves the canvas. It returns the number of pages produced.
func Render(doc *counts.Document, title string, c Canvas, l Layout) (int, error) {
	r := &renderer{c: c, l: l, page: 1}
	r.setFont(l.BodyFont)
	r.y = l.top()

	r.setFont(l.TitleFont)
	c.DrawString(l.Left, r.y, l.Title)
	r.y -= l.TitleGap

	r.setFont(l.BodyFont)
	c.DrawString(l.Left, r.y, "URL: "+title)
	r.y -= l.URLGap

	for _, e := range doc.Entries() {
		r.breakBelow(l.SectionThreshold)
		switch e.Value.Kind() {
		case counts.KindTableList:
			r.tables(e.Value.Tables())
		case counts.KindStringList:
			r.list(e.Key, e.Value.Strings())
		default:
			r.line(l.Left, fmt.Sprintf("%s %s: %d", l.Bullet, Humanize(e.Key), e.Value.Int()))
		}
	}

	if err := c.Save(); err != nil {
		return r.page, &SinkError{Err: err}
	}
	return r.page, nil
}

// RenderFile renders doc to a PDF at path. The file only appears once the
// whole report has been produced.
func RenderFile(doc *counts.Document, title, path string, l Layout) (int, error) {
	var buf bytes.Buffer
	pages, err := Render(doc, title, NewPDFCanvas(&buf, l), l)
	if err != nil {
		return pages, err
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return pages, &SinkError{Path: path, Err: err}
	}
	return pages, nil
}

// Humanize turns a category key into a heading: link_hrefs becomes Link Hrefs.
func Humanize(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

type renderer struct {
	c    Canvas
	l    Layout
	y    float64
	page int
	font Font
}

func (r *renderer) setFont(f Font) {
	r.font = f
	r.c.SetFont(f)
}

// line draws text at the cursor and moves the cursor down one line.
func (r *renderer) line(x float64, text string) {
	r.c.DrawString(x, r.y, text)
	r.y -= r.l.LineHeight
}

// breakBelow starts a new page when the cursor is below threshold. The
// active font carries over to the new page.
func (r *renderer) breakBelow(threshold float64) {
	if r.y >= threshold {
		return
	}
	r.c.ShowPage()
	r.page++
	r.y = r.l.top()
	r.c.SetFont(r.font)
}

func (r *renderer) tables(tables []counts.Table) {
	for i, t := range tables {
		r.breakBelow(r.l.SectionThreshold)
		rows, cols := t.Dimensions()
		r.line(r.l.Left, fmt.Sprintf("%s Table %d (%d×%d):", r.l.Bullet, i+1, rows, cols))

		r.setFont(r.l.ListFont)
		for _, row := range t {
			r.wrapped(strings.Join(row, r.l.CellSeparator))
		}
		r.setFont(r.l.BodyFont)
	}
}

func (r *renderer) list(key string, items []string) {
	r.line(r.l.Left, fmt.Sprintf("%s %s (%d items):", r.l.Bullet, Humanize(key), len(items)))

	r.setFont(r.l.ListFont)
	for _, item := range items {
		r.wrapped(r.l.ItemPrefix + item)
	}
	r.setFont(r.l.BodyFont)
}

// wrapped draws text at the sub-indent in ChunkWidth pieces.
func (r *renderer) wrapped(text string) {
	for _, chunk := range chunks(text, r.l.ChunkWidth) {
		r.breakBelow(r.l.LineThreshold)
		r.line(r.l.Left+r.l.Indent, chunk)
	}
}

// chunks cuts s into consecutive pieces of at most width runes. An empty
// string yields no pieces.
func chunks(s string, width int) []string {
	runes := []rune(s)
	if width <= 0 {
		width = len(runes)
	}
	var out []string
	for i := 0; i < len(runes); i += width {
		end := min(i+width, len(runes))
		out = append(out, string(runes[i:end]))
	}
	return out
}

func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".elementscan-*.pdf")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
