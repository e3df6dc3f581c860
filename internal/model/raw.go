package model

// Row kinds emitted by the fetchers.
const (
	RowFlow         = "flow"
	RowPriceBox     = "price_box"
	RowPriceHistory = "price_history"
	RowNews         = "news"
	RowOptionStrike = "option_strike"
	RowBar          = "bar"
)

// RawRow is the uniform, unparsed output of a Fetcher: the text cells of one
// table row, list item, or JSON record. Attrs carries markup hints such as
// the CSS class used to encode a change direction.
type RawRow struct {
	Source string
	Kind   string
	Cells  []string
	Attrs  map[string]string
}

// Cell returns the i-th cell, or "" when the row is shorter.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Attr returns a markup hint, or "" when absent.
func (r RawRow) Attr(key string) string {
	if r.Attrs == nil {
		return ""
	}
	return r.Attrs[key]
}
