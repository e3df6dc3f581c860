package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TextRenderer writes a plain-text report with box-drawn tables.
type TextRenderer struct{}

func (TextRenderer) Ext() string { return "txt" }

func (TextRenderer) Render(w io.Writer, doc *Document) error {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "%s\n%s\n", doc.Title, strings.Repeat("=", len([]rune(doc.Title))))
	}
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n", doc.Subtitle)
	}
	if !doc.Date.IsZero() {
		fmt.Fprintf(&b, "Generated %s\n", doc.Date.Format("02-01-2006 15:04"))
	}

	for _, blk := range doc.Blocks {
		b.WriteString("\n")
		switch v := blk.(type) {
		case Heading:
			fmt.Fprintf(&b, "[%s]\n", v.Text)
		case Paragraph:
			b.WriteString(v.Text + "\n")
		case KeyValues:
			width := 0
			for _, p := range v.Pairs {
				if n := len([]rune(p.Key)); n > width {
					width = n
				}
			}
			for _, p := range v.Pairs {
				fmt.Fprintf(&b, "  %-*s : %s\n", width, p.Key, p.Value)
			}
		case Table:
			b.WriteString(TextTable(v) + "\n")
		case NewsList:
			for i, item := range v.Items {
				fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
				if item.Summary != "" {
					fmt.Fprintf(&b, "   %s\n", item.Summary)
				}
			}
		case Image:
			fmt.Fprintf(&b, "(chart: %s)\n", v.Caption)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// TextTable renders a Table with rounded box drawing.
func TextTable(t Table) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if t.Caption != "" {
		tw.SetTitle(t.Caption)
	}
	if len(t.Header) > 0 {
		tw.AppendHeader(toRow(t.Header))
	}
	for _, r := range t.Rows {
		tw.AppendRow(toRow(r))
	}
	return tw.Render()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
