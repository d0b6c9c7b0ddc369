package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// Canvas is the drawing surface a report is laid out on. Coordinates have
// their origin at the bottom-left corner of the page.
type Canvas interface {
	SetFont(f Font)
	DrawString(x, y float64, text string)
	// ShowPage ends the current page and starts the next one.
	ShowPage()
	// Save finalizes the document and writes it out.
	Save() error
}

// PDFCanvas renders to a PDF document written to w on Save.
type PDFCanvas struct {
	pdf    *fpdf.Fpdf
	w      io.Writer
	height float64
	encode func(string) string
}

func NewPDFCanvas(w io.Writer, l Layout) *PDFCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(l.CreationDate)
	pdf.SetModificationDate(l.CreationDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(l.Title, true)
	pdf.AddPage()

	return &PDFCanvas{
		pdf:    pdf,
		w:      w,
		height: l.PageHeight,
		// Core fonts are cp1252; this maps bullets, ellipses and × correctly.
		encode: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) SetFont(f Font) {
	c.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (c *PDFCanvas) DrawString(x, y float64, text string) {
	c.pdf.Text(x, c.height-y, c.encode(text))
}

func (c *PDFCanvas) ShowPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) Save() error {
	return c.pdf.Output(c.w)
}
