package fileconv

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// fakePages serves generated page text and fails the pages listed in broken.
type fakePages struct {
	n      int
	broken map[int]bool
	read   int
}

func (f *fakePages) NumPage() int { return f.n }

func (f *fakePages) PageText(i int) ([]string, error) {
	f.read++
	if f.broken[i] {
		return nil, errors.New("corrupt content stream")
	}
	return []string{fmt.Sprintf("page %d", i), "  ", "end"}, nil
}

func TestReadPagesCap(t *testing.T) {
	x := NewPagedTextExtractor(zerolog.Nop())
	src := &fakePages{n: 600}
	got := x.readPages(src)

	if got.PageCount != 600 || got.ActualPagesProcessed != 500 {
		t.Errorf("PageCount/ActualPagesProcessed = %d/%d, want 600/500", got.PageCount, got.ActualPagesProcessed)
	}
	if len(got.Pages) != 500 || src.read != 500 {
		t.Errorf("read %d pages, kept %d; want 500", src.read, len(got.Pages))
	}
	if got.Pages[499] != "page 500 end" {
		t.Errorf("last page = %q", got.Pages[499])
	}
}

func TestReadPagesBrokenPage(t *testing.T) {
	x := NewPagedTextExtractor(zerolog.Nop())
	got := x.readPages(&fakePages{n: 3, broken: map[int]bool{2: true}})

	want := []string{"page 1 end", "", "page 3 end"}
	if !reflect.DeepEqual(got.Pages, want) {
		t.Errorf("Pages = %q, want %q", got.Pages, want)
	}
	if got.Text != "page 1 end\n\n\n\npage 3 end" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestExtractPDFFailures(t *testing.T) {
	x := NewPagedTextExtractor(zerolog.Nop())
	x.open = func([]byte) (pdfPageReader, error) {
		return &fakePages{n: 2, broken: map[int]bool{1: true, 2: true}}, nil
	}
	_, err := x.Extract(context.Background(), Source{Data: []byte("%PDF"), Category: CategoryPDF})
	if !IsKind(err, KindEmptyContent) {
		t.Errorf("unreadable pages: err = %v, want EmptyContent", err)
	}

	_, err = extract(t, "broken.pdf", []byte("this is not a pdf"))
	if !IsKind(err, KindParseFailure) {
		t.Errorf("garbage: err = %v, want ParseFailure", err)
	}
}

func TestRowText(t *testing.T) {
	if got := rowText(nil); got != "" {
		t.Errorf("rowText(nil) = %q", got)
	}
}

func fpdfMeasure() func(string) float64 {
	doc := fpdf.NewCustom(&fpdf.InitType{OrientationStr: "P", UnitStr: "pt", Size: fpdf.SizeType{Wd: pdfPageWidth, Ht: pdfPageHeight}})
	doc.SetFont("Helvetica", "", pdfFontSize)
	return doc.GetStringWidth
}

func TestLayoutPDF(t *testing.T) {
	measure := fpdfMeasure()
	var b strings.Builder
	for i := 0; i < 80; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog again and again until the line wraps twice. ")
		b.WriteString(strings.Repeat("x", 300))
		b.WriteString("\n")
	}

	pages, err := layoutPDF(b.String(), measure, &pdfCheckpoints{})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want several", len(pages))
	}
	for p, page := range pages {
		if len(page) > 54 {
			t.Errorf("page %d has %d lines, max is 54", p, len(page))
		}
		for _, line := range page {
			if w := measure(line); w > pdfContentWidth {
				t.Errorf("page %d line %q is %.1fpt wide", p, line, w)
			}
		}
	}
}

func TestWrapLine(t *testing.T) {
	// One unit per rune.
	measure := func(s string) float64 { return float64(len([]rune(s))) }
	tests := []struct {
		line string
		want []string
	}{
		{"", []string{""}},
		{"ab cd ef", []string{"ab cd", "ef"}},
		{"abcdefghijkl", []string{"abcde", "fghij", "kl"}},
		{"a  b", []string{"a  b"}},
		{"ééééééé x", []string{"ééééé", "éé x"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := wrapLine(tt.line, 5, measure)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrapLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestPDFConvertPages(t *testing.T) {
	lines := make([]string, 120)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	art := convertModel(t, &PlainText{Text: strings.Join(lines, "\n")}, "txt", "pdf")
	if art.MIMEType != MIMEPDF || art.Filename != "out.pdf" {
		t.Errorf("artifact = %s (%s)", art.Filename, art.MIMEType)
	}
	if !strings.HasPrefix(string(art.Data), "%PDF-") {
		t.Fatal("output is not a PDF")
	}
	r, err := openPDF(art.Data)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if n := r.NumPage(); n != 3 {
		t.Errorf("NumPage = %d, want 3", n)
	}
}

func TestPDFRoundTrip(t *testing.T) {
	art := convertModel(t, &PlainText{Text: "Hello world"}, "txt", "pdf")
	paged := mustExtract(t, "out.pdf", art.Data).(*PagedText)
	if paged.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", paged.PageCount)
	}
	if !strings.Contains(strings.ReplaceAll(paged.Text, " ", ""), "Helloworld") {
		t.Errorf("Text = %q", paged.Text)
	}
}

func checkpointText() string {
	line := strings.TrimSpace(strings.Repeat("abcd ", 20))
	lines := make([]string, 400)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func TestPDFCheckpoints(t *testing.T) {
	text := checkpointText()
	c := NewPDFConverter()

	t.Run("large source reports progress", func(t *testing.T) {
		var calls [][2]int
		job := ConvertJob{
			Target:     "pdf",
			BaseName:   "big",
			SourceSize: LargeFileThreshold + 1,
			Progress:   func(done, total int) { calls = append(calls, [2]int{done, total}) },
		}
		if _, err := c.Convert(context.Background(), &PlainText{Text: text}, job); err != nil {
			t.Fatal(err)
		}
		want := [][2]int{{10, 12}, {12, 12}}
		if !reflect.DeepEqual(calls, want) {
			t.Errorf("progress calls = %v, want %v", calls, want)
		}
	})

	t.Run("small source is silent", func(t *testing.T) {
		called := false
		job := ConvertJob{Target: "pdf", BaseName: "small", SourceSize: 1024, Progress: func(int, int) { called = true }}
		if _, err := c.Convert(context.Background(), &PlainText{Text: text}, job); err != nil {
			t.Fatal(err)
		}
		if called {
			t.Error("progress reported for a small source")
		}
	})

	t.Run("cancellation stops rendering", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		job := ConvertJob{Target: "pdf", BaseName: "big", SourceSize: LargeFileThreshold + 1}
		_, err := c.Convert(ctx, &PlainText{Text: text}, job)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if !IsKind(err, KindRenderFailure) {
			t.Errorf("kind = %q, want %q", KindOf(err), KindRenderFailure)
		}
	})
}
