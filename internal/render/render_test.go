package render

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketBulletin/internal/model"

	"github.com/stretchr/testify/require"
)

func sampleDoc() *Document {
	doc := NewDocument("Gold Rates")
	doc.Subtitle = "Chennai"
	doc.Date = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	return doc.Add(
		Heading{Text: "Today"},
		KeyValues{Pairs: []KV{{Key: "24K", Value: "₹7,245 ↑"}, {Key: "22K", Value: "₹6,641 ↓"}}},
		Table{Caption: "Last days", Header: []string{"Date", "24K"}, Rows: [][]string{{"05-03-2024", "7,245"}, {"04-03-2024", "7,235"}}},
		Paragraph{Text: "Prices firmed on global cues & a weak rupee.", Italic: true},
		NewsList{Items: []model.NewsItem{{Title: "Sensex <up>", Summary: "Banks lead"}}},
	)
}

func sampleChart() ChartSpec {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	var values []float64
	for i := 0; i < 10; i++ {
		times = append(times, start.AddDate(0, 0, i))
		values = append(values, 22000+float64(i*15))
	}
	return ChartSpec{
		Title:  "NIFTY 50",
		Lines:  []Line{{Name: "Close", Times: times, Values: values}},
		Levels: []Level{{Name: "Resistance", Value: 22200, Color: ColorResistance}, {Name: "Support", Value: 21950, Color: ColorSupport}},
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, sampleDoc()))
	out := buf.String()
	require.Contains(t, out, "Gold Rates\n==========")
	require.Contains(t, out, "[Today]")
	require.Contains(t, out, "24K : ₹7,245 ↑")
	require.Contains(t, out, "05-03-2024")
	require.Contains(t, out, "1. Sensex <up>")
	require.Contains(t, out, "Generated 05-03-2024 09:00")
}

func TestDocxRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DocxRenderer{}.Render(&buf, sampleDoc()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	require.Contains(t, names, "[Content_Types].xml")
	require.Contains(t, names, "_rels/.rels")
	require.Contains(t, names, "word/document.xml")

	rc, err := names["word/document.xml"].Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)

	xml := string(body)
	require.Contains(t, xml, "Gold Rates")
	require.Contains(t, xml, "Sensex &lt;up&gt;")
	require.Contains(t, xml, "global cues &amp; a weak rupee")
	require.Contains(t, xml, "1. ")
	require.Contains(t, xml, "<w:tbl>")
	require.Contains(t, xml, "<w:b")
}

func TestPDFRendererEmbedsChart(t *testing.T) {
	png, err := ChartPNG(sampleChart())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	doc := sampleDoc().Add(Image{Name: "nifty", PNG: png, Caption: "Hourly close"})
	var buf bytes.Buffer
	require.NoError(t, PDFRenderer{}.Render(&buf, doc))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRendererRejectsBrokenImage(t *testing.T) {
	doc := NewDocument("x").Add(Image{Name: "bad", PNG: []byte("not a png")})
	err := PDFRenderer{}.Render(io.Discard, doc)
	require.Error(t, err)
}

func TestRenderChartNeedsTwoPoints(t *testing.T) {
	spec := ChartSpec{Lines: []Line{{Name: "x", Times: []time.Time{time.Now()}, Values: []float64{1}}}}
	err := RenderChart(io.Discard, spec)
	require.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestWriteFileIsAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteFile(dir, "gold", TextRenderer{}, sampleDoc())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "gold.txt"), path)

	_, err = WriteFile(dir, "broken", PDFRenderer{}, NewDocument("x").Add(Image{PNG: []byte("nope")}))
	var re *RenderError
	require.True(t, errors.As(err, &re))
	require.Equal(t, filepath.Join(dir, "broken.pdf"), re.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"gold.txt"}, names)
}

func TestWriteChart(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteChart(dir, "nifty_chart", sampleChart())
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".png"))
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestDocumentAppend(t *testing.T) {
	digest := NewDocument("Digest")
	digest.Append(NewDocument("Gold").Add(Paragraph{Text: "a"}))
	require.Equal(t, []Block{Heading{Text: "Gold"}, Paragraph{Text: "a"}}, digest.Blocks)
}
