package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// pdfSafe maps glyphs the core PDF fonts cannot show.
var pdfSafe = strings.NewReplacer(
	"₹", "Rs.",
	"↑", "^",
	"↓", "v",
	"▲", "^",
	"▼", "v",
	"→", "->",
	"🟢", "",
	"🔴", "",
)

// PDFRenderer writes an A4 report using the core Helvetica font.
type PDFRenderer struct{}

func (PDFRenderer) Ext() string { return "pdf" }

func (PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	txt := func(s string) string { return tr(pdfSafe.Replace(s)) }

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 15)
		pdf.CellFormat(0, 10, txt(doc.Title), "", 1, "C", false, 0, "")
		if doc.Subtitle != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.CellFormat(0, 6, txt(doc.Subtitle), "", 1, "C", false, 0, "")
		}
		pdf.Ln(3)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("Page %d", pdf.PageNo())
		if !doc.Date.IsZero() {
			footer += " | Generated " + doc.Date.Format("02-01-2006 15:04")
		}
		pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	for i, blk := range doc.Blocks {
		switch v := blk.(type) {
		case Heading:
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, txt(v.Text), "B", 1, "L", false, 0, "")
			pdf.Ln(2)
		case Paragraph:
			style := ""
			if v.Italic {
				style = "I"
			}
			pdf.SetFont("Helvetica", style, 10)
			pdf.MultiCell(0, 5, txt(v.Text), "", "L", false)
			pdf.Ln(2)
		case KeyValues:
			keyW := contentW * 0.4
			for _, p := range v.Pairs {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.CellFormat(keyW, 7, txt(p.Key), "1", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 10)
				pdf.CellFormat(contentW-keyW, 7, txt(p.Value), "1", 1, "L", false, 0, "")
			}
			pdf.Ln(3)
		case Table:
			pdfTable(pdf, v, contentW, txt)
		case NewsList:
			for n, item := range v.Items {
				pdf.SetFont("Helvetica", "B", 11)
				pdf.MultiCell(0, 6, txt(fmt.Sprintf("%d. %s", n+1, item.Title)), "", "L", false)
				if item.Summary != "" {
					pdf.SetFont("Helvetica", "I", 10)
					pdf.SetTextColor(89, 89, 89)
					pdf.SetX(left + 6)
					pdf.MultiCell(contentW-6, 5, txt(item.Summary), "", "L", false)
					pdf.SetTextColor(0, 0, 0)
				}
				pdf.Ln(3)
			}
		case Image:
			name := v.Name
			if name == "" {
				name = fmt.Sprintf("image-%d", i)
			}
			opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(v.PNG))
			pdf.ImageOptions(name, left, -1, contentW, 0, true, opts, 0, "")
			if v.Caption != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(0, 6, txt(v.Caption), "", 1, "C", false, 0, "")
			}
			pdf.Ln(3)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfTable(pdf *fpdf.Fpdf, t Table, contentW float64, txt func(string) string) {
	cols := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return
	}
	if t.Caption != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, txt(t.Caption), "", 1, "L", false, 0, "")
	}
	colW := contentW / float64(cols)

	if len(t.Header) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i := 0; i < cols; i++ {
			pdf.CellFormat(colW, 7, txt(cell(t.Header, i)), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, r := range t.Rows {
		for i := 0; i < cols; i++ {
			pdf.CellFormat(colW, 6, txt(cell(r, i)), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
