package fileconv

import (
	"reflect"
	"strings"
	"testing"
)

func TestAnalyzeIsDeterministic(t *testing.T) {
	desc := NewInputDescriptor("fruit.xlsx", "", 2048)
	m := sampleTabular()
	first := Analyze(desc, m)
	second := Analyze(desc, m)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze differs between calls:\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeAdvice(t *testing.T) {
	const mib = 1024 * 1024
	tests := []struct {
		name     string
		file     string
		size     int64
		wantTier SpeedTier
		wantRec  []string
		wantTips []Tip
	}{
		{
			name:     "small spreadsheet",
			file:     "a.xlsx",
			size:     2048,
			wantTier: TierInstant,
			wantRec:  []string{"pdf", "json"},
			wantTips: []Tip{TipOptimalSize, TipSpreadsheetUse, TipAutoDownload, TipMultipleTargets},
		},
		{
			name:     "large pdf",
			file:     "a.pdf",
			size:     25 * mib,
			wantTier: TierSlow,
			wantRec:  []string{"txt", "csv"},
			wantTips: []Tip{TipLargeFile, TipPDFEditing, TipAutoDownload, TipMultipleTargets},
		},
		{
			name:     "medium docx",
			file:     "a.docx",
			size:     5 * mib,
			wantTier: TierModerate,
			wantRec:  []string{"pdf"},
			wantTips: []Tip{TipDocumentSharing, TipAutoDownload, TipMultipleTargets},
		},
		{
			name:     "small pdf",
			file:     "a.pdf",
			size:     2 * mib,
			wantTier: TierFast,
			wantRec:  []string{"txt"},
			wantTips: []Tip{TipPDFEditing, TipAutoDownload, TipMultipleTargets},
		},
		{
			name:     "json uses first matrix entry",
			file:     "a.json",
			size:     100,
			wantTier: TierInstant,
			wantRec:  []string{"xlsx"},
			wantTips: []Tip{TipOptimalSize, TipAutoDownload, TipMultipleTargets},
		},
		{
			name:     "gif falls back to pdf",
			file:     "a.gif",
			size:     100,
			wantTier: TierInstant,
			wantRec:  []string{"pdf"},
			wantTips: []Tip{TipOptimalSize, TipAutoDownload, TipMultipleTargets},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze(NewInputDescriptor(tt.file, "", tt.size), &PlainText{Text: "x"})
			if a.SpeedTier != tt.wantTier {
				t.Errorf("SpeedTier = %q (%.2fs), want %q", a.SpeedTier, a.EstimatedSeconds, tt.wantTier)
			}
			if !reflect.DeepEqual(a.Recommended, tt.wantRec) {
				t.Errorf("Recommended = %v, want %v", a.Recommended, tt.wantRec)
			}
			if !reflect.DeepEqual(a.Tips, tt.wantTips) {
				t.Errorf("Tips = %v, want %v", a.Tips, tt.wantTips)
			}
		})
	}
}

func TestSpeedTier(t *testing.T) {
	tests := []struct {
		seconds float64
		want    SpeedTier
	}{
		{0, TierInstant},
		{0.99, TierInstant},
		{1, TierFast},
		{3, TierModerate},
		{10, TierSlow},
		{29.9, TierSlow},
		{30, TierLong},
	}
	for _, tt := range tests {
		if got := speedTier(tt.seconds); got != tt.want {
			t.Errorf("speedTier(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestAnalyzeStats(t *testing.T) {
	t.Run("tabular", func(t *testing.T) {
		a := Analyze(NewInputDescriptor("a.csv", "", 10), sampleTabular())
		want := &TabularStats{Rows: 3, Columns: 3, Cells: 9, Sheets: 1}
		if !reflect.DeepEqual(a.Tabular, want) {
			t.Errorf("Tabular = %+v, want %+v", a.Tabular, want)
		}
		if a.Category != CategorySpreadsheet || a.SizeLabel != "10 B" {
			t.Errorf("Category = %v, SizeLabel = %q", a.Category, a.SizeLabel)
		}
	})

	t.Run("rich", func(t *testing.T) {
		text := strings.TrimSpace(strings.Repeat("word ", 301))
		a := Analyze(NewInputDescriptor("a.docx", "", 10), &RichText{Text: text})
		want := &RichStats{Words: 301, Characters: 1504, Pages: 2, ReadingMinutes: 2}
		if !reflect.DeepEqual(a.Rich, want) {
			t.Errorf("Rich = %+v, want %+v", a.Rich, want)
		}
	})

	t.Run("paged", func(t *testing.T) {
		a := Analyze(NewInputDescriptor("a.pdf", "", 10), &PagedText{
			Text: "a b c d", Pages: []string{"a b", "c", "d"}, PageCount: 700, ActualPagesProcessed: 3,
		})
		want := &PagedStats{Pages: 700, PagesProcessed: 3, Words: 4, Characters: 7, AverageWordsPerPage: 0}
		if !reflect.DeepEqual(a.Paged, want) {
			t.Errorf("Paged = %+v, want %+v", a.Paged, want)
		}
	})

	t.Run("paged average rounds half up", func(t *testing.T) {
		a := Analyze(NewInputDescriptor("a.pdf", "", 10), &PagedText{
			Text: "a b c\n\nd e", Pages: []string{"a b c", "d e"}, PageCount: 2, ActualPagesProcessed: 2,
		})
		if got := a.Paged.AverageWordsPerPage; got != 3 {
			t.Errorf("AverageWordsPerPage = %d, want 3", got)
		}
	})

	t.Run("image", func(t *testing.T) {
		a := Analyze(NewInputDescriptor("a.png", "", 10), &ImageRef{Format: "png", Width: 4, Height: 2})
		if a.Image == nil || a.Image.Width != 4 || a.Image.Height != 2 {
			t.Errorf("Image = %+v", a.Image)
		}
	})

	t.Run("nil descriptor", func(t *testing.T) {
		a := Analyze(nil, &PlainText{Text: "x"})
		if a.Category != CategoryUnknown || a.Rich == nil {
			t.Errorf("Analyze(nil) = %+v", a)
		}
	})
}

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Release notes</title>
<link>https://example.com/</link>
<description>Updates</description>
<item><title>Version 2</title><link>https://example.com/2</link></item>
<item><title>Version 1</title><link>https://example.com/1</link></item>
</channel>
</rss>`

func TestAnalyzeFeed(t *testing.T) {
	st := mustExtract(t, "news.xml", []byte(testRSS)).(*SourceText)
	a := Analyze(NewInputDescriptor("news.xml", "", int64(len(testRSS))), st)
	if a.Feed == nil {
		t.Fatal("RSS source was not recognized as a feed")
	}
	want := &FeedSummary{Type: "rss", Version: "2.0", Title: "Release notes", ItemCount: 2, Latest: "Version 2"}
	if !reflect.DeepEqual(a.Feed, want) {
		t.Errorf("Feed = %+v, want %+v", a.Feed, want)
	}

	plain := mustExtract(t, "data.xml", []byte("<data><a>1</a></data>")).(*SourceText)
	if got := Analyze(NewInputDescriptor("data.xml", "", 21), plain).Feed; got != nil {
		t.Errorf("plain XML reported as feed: %+v", got)
	}
}
