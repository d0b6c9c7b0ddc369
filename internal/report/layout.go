package report

import "time"

// Font selects a PDF core font. Style is "" (regular), "B" or "I".
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Layout fixes the page geometry and typography of a report. All distances
// are PDF points measured, like the cursor, from the bottom of the page.
type Layout struct {
	PageWidth  float64
	PageHeight float64
	TopMargin  float64
	Left       float64
	Indent     float64
	LineHeight float64

	// Vertical space consumed by the report title and the URL line.
	TitleGap float64
	URLGap   float64

	// A new category header starts a new page when the cursor is below
	// SectionThreshold; a wrapped sub-line when it is below LineThreshold.
	SectionThreshold float64
	LineThreshold    float64

	// ChunkWidth is the rune width list items and table rows are cut into.
	ChunkWidth int

	Title         string
	Bullet        string
	ItemPrefix    string
	CellSeparator string

	TitleFont Font
	BodyFont  Font
	ListFont  Font

	// CreationDate is stamped into the PDF metadata. A fixed value keeps
	// output byte-identical across runs.
	CreationDate time.Time
}

// DefaultLayout is a US letter page with Helvetica text.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:        612,
		PageHeight:       792,
		TopMargin:        60,
		Left:             40,
		Indent:           20,
		LineHeight:       16,
		TitleGap:         30,
		URLGap:           20,
		SectionThreshold: 100,
		LineThreshold:    50,
		ChunkWidth:       80,
		Title:            "Element Counts Report",
		Bullet:           "•",
		ItemPrefix:       "- ",
		CellSeparator:    " | ",
		TitleFont:        Font{Family: "Helvetica", Style: "B", Size: 16},
		BodyFont:         Font{Family: "Helvetica", Size: 10},
		ListFont:         Font{Family: "Helvetica", Style: "I", Size: 9},
		CreationDate:     time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// top is the cursor position at the start of every page.
func (l Layout) top() float64 {
	return l.PageHeight - l.TopMargin
}
