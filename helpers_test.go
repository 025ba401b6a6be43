package fileconv

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/xuri/excelize/v2"
)

// encodeTestPNG returns a w×h PNG with a simple gradient.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// buildTestXLSX writes rows into the first sheet of a new workbook, with any
// extra sheets appended empty.
func buildTestXLSX(t *testing.T, rows [][]any, extraSheets ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}
	for _, name := range extraSheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %s: %v", name, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// extract runs the engine's extractor for name over data.
func extract(t *testing.T, name string, data []byte) (ContentModel, error) {
	t.Helper()
	ext := ExtensionOf(name)
	return New().Extract(context.Background(), Source{
		Data:      data,
		Name:      name,
		Extension: ext,
		Category:  CategoryOf(ext),
	})
}

// mustExtract is extract that fails the test on error.
func mustExtract(t *testing.T, name string, data []byte) ContentModel {
	t.Helper()
	m, err := extract(t, name, data)
	if err != nil {
		t.Fatalf("extract %s: %v", name, err)
	}
	return m
}

// convertModel runs the engine's converter for target.
func convertModel(t *testing.T, m ContentModel, sourceExt, target string) *Artifact {
	t.Helper()
	art, err := New().Convert(context.Background(), ConversionRequest{
		Content:         m,
		SourceExtension: sourceExt,
		Target:          target,
		BaseName:        "out",
	})
	if err != nil {
		t.Fatalf("convert %s→%s: %v", sourceExt, target, err)
	}
	return art
}

func sampleTabular() *Tabular {
	return buildTabular([][]string{
		{"name", "qty", "note"},
		{"apple", "3", `say "hi"`},
		{"pear", "1.5", "a,b"},
	}, []string{"Sheet1"})
}
