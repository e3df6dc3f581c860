// Package render turns a format-neutral Document into report artifacts.
package render

import (
	"io"
	"time"

	"MarketBulletin/internal/model"
)

// Block is one element of a Document.
type Block interface {
	block()
}

// Heading is a section title.
type Heading struct {
	Text string
}

// Paragraph is running prose.
type Paragraph struct {
	Text   string
	Italic bool
}

// KV is a single labelled value.
type KV struct {
	Key   string
	Value string
}

// KeyValues is a short list of labelled values.
type KeyValues struct {
	Pairs []KV
}

// Table is a grid with a header row.
type Table struct {
	Caption string
	Header  []string
	Rows    [][]string
}

// NewsList is a numbered list of headlines with summaries.
type NewsList struct {
	Items []model.NewsItem
}

// Image embeds a PNG.
type Image struct {
	Name    string
	PNG     []byte
	Caption string
}

func (Heading) block()   {}
func (Paragraph) block() {}
func (KeyValues) block() {}
func (Table) block()     {}
func (NewsList) block()  {}
func (Image) block()     {}

// Document is the neutral report model every Renderer consumes.
type Document struct {
	Title    string
	Subtitle string
	Date     time.Time
	Blocks   []Block
}

// NewDocument creates an empty document dated now.
func NewDocument(title string) *Document {
	return &Document{Title: title, Date: time.Now()}
}

// Add appends blocks and returns the document for chaining.
func (d *Document) Add(blocks ...Block) *Document {
	d.Blocks = append(d.Blocks, blocks...)
	return d
}

// Append copies other's blocks under a heading carrying other's title.
func (d *Document) Append(other *Document) *Document {
	if other == nil {
		return d
	}
	if other.Title != "" {
		d.Blocks = append(d.Blocks, Heading{Text: other.Title})
	}
	d.Blocks = append(d.Blocks, other.Blocks...)
	return d
}

// Renderer writes a Document in one output format.
type Renderer interface {
	Ext() string
	Render(w io.Writer, doc *Document) error
}
