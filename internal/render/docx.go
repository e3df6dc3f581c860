package render

import (
	"fmt"
	"io"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

// DocxRenderer writes a Word document.
type DocxRenderer struct{}

func (DocxRenderer) Ext() string { return "docx" }

const (
	summaryGrey = "595959"
	tableStyle  = "LightList-Accent1"
)

func (DocxRenderer) Render(w io.Writer, doc *Document) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new docx: %w", err)
	}

	if doc.Title != "" {
		d.AddHeading(doc.Title, 0)
	}
	if doc.Subtitle != "" {
		d.AddParagraph("").AddText(doc.Subtitle).Italic(true).Color(summaryGrey)
	}

	for _, blk := range doc.Blocks {
		switch v := blk.(type) {
		case Heading:
			d.AddHeading(v.Text, 2)
		case Paragraph:
			d.AddParagraph("").AddText(v.Text).Italic(v.Italic)
		case KeyValues:
			for _, kv := range v.Pairs {
				p := d.AddParagraph("")
				p.AddText(kv.Key + ": ").Bold(true)
				p.AddText(kv.Value)
			}
		case Table:
			docxTable(d, v)
		case NewsList:
			for i, item := range v.Items {
				p := d.AddParagraph("")
				p.AddText(fmt.Sprintf("%d. ", i+1)).Bold(true).Size(12)
				p.AddText(item.Title).Bold(true).Size(12)
				if item.Summary != "" {
					d.AddParagraph("").AddText(item.Summary).Italic(true).Color(summaryGrey).Size(11)
				}
			}
		case Image:
			d.AddParagraph("").AddText("[" + v.Caption + "]").Italic(true).Color(summaryGrey)
		}
	}

	if err := d.Write(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func docxTable(d *docx.RootDoc, t Table) {
	if t.Caption != "" {
		d.AddParagraph("").AddText(t.Caption).Bold(true)
	}
	tbl := d.AddTable()
	tbl.Style(tableStyle)
	if len(t.Header) > 0 {
		row := tbl.AddRow()
		for _, h := range t.Header {
			row.AddCell().AddParagraph("").AddText(h).Bold(true)
		}
	}
	for _, r := range t.Rows {
		row := tbl.AddRow()
		for _, c := range r {
			row.AddCell().AddParagraph(c)
		}
	}
	d.AddParagraph("")
}
