// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import (
	"math"
	"strings"
)

// SpeedTier buckets an estimated conversion time.
type SpeedTier string

const (
	TierInstant  SpeedTier = "<1s"
	TierFast     SpeedTier = "1-3s"
	TierModerate SpeedTier = "3-10s"
	TierSlow     SpeedTier = "10-30s"
	TierLong     SpeedTier = "30s+"
)

// Tip is an advisory code shown next to the analysis.
type Tip string

const (
	TipLargeFile       Tip = "large_file"
	TipOptimalSize     Tip = "optimal_size"
	TipSpreadsheetUse  Tip = "spreadsheet_json_or_pdf"
	TipPDFEditing      Tip = "pdf_edit_as_txt_or_docx"
	TipDocumentSharing Tip = "document_share_as_pdf"
	TipAutoDownload    Tip = "auto_download"
	TipMultipleTargets Tip = "multiple_targets"
)

const (
	largeTableRows          = 10000
	recommendSizeMiB        = 20.0
	wordsPerPage            = 300
	wordsPerMinute          = 200
	secondsPerMiB           = 0.5
	bytesPerMiB             = 1024 * 1024
	optimalSizeMiBThreshold = 1.0
)

// Analysis is the advisory summary of one upload. It has no timestamps, so the
// same input always yields an equal value.
type Analysis struct {
	Name         string   `json:"name"`
	Extension    string   `json:"extension"`
	Category     Category `json:"category"`
	Size         int64    `json:"size"`
	SizeLabel    string   `json:"sizeLabel"`
	SniffedMIME  string   `json:"sniffedMime,omitempty"`
	MIMEMismatch bool     `json:"mimeMismatch"`

	Tabular *TabularStats `json:"tabular,omitempty"`
	Paged   *PagedStats   `json:"paged,omitempty"`
	Rich    *RichStats    `json:"rich,omitempty"`
	Source  *SourceStats  `json:"source,omitempty"`
	Image   *ImageStats   `json:"image,omitempty"`
	Feed    *FeedSummary  `json:"feed,omitempty"`

	EstimatedSeconds float64   `json:"estimatedSeconds"`
	SpeedTier        SpeedTier `json:"speedTier"`
	Recommended      []string  `json:"recommended"`
	Tips             []Tip     `json:"tips"`
}

type TabularStats struct {
	Rows       int  `json:"rows"`
	Columns    int  `json:"columns"`
	Cells      int  `json:"cells"`
	Sheets     int  `json:"sheets"`
	LargeTable bool `json:"largeTable"`
}

type PagedStats struct {
	Pages               int `json:"pages"`
	PagesProcessed      int `json:"pagesProcessed"`
	Words               int `json:"words"`
	Characters          int `json:"characters"`
	AverageWordsPerPage int `json:"averageWordsPerPage"`
}

type RichStats struct {
	Words          int `json:"words"`
	Characters     int `json:"characters"`
	Pages          int `json:"pages"`
	ReadingMinutes int `json:"readingMinutes"`
}

type SourceStats struct {
	Lines      int `json:"lines"`
	Characters int `json:"characters"`
}

type ImageStats struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Analyze computes the advisory summary for an extracted upload. It never
// changes how a conversion behaves.
func Analyze(desc *InputDescriptor, m ContentModel) *Analysis {
	if desc == nil {
		desc = &InputDescriptor{}
	}
	ext := NormalizeExtension(desc.DeclaredExtension)
	sizeMiB := float64(desc.Size) / bytesPerMiB

	a := &Analysis{
		Name:         desc.Name,
		Extension:    ext,
		Category:     CategoryOf(ext),
		Size:         desc.Size,
		SizeLabel:    FormatSize(desc.Size),
		SniffedMIME:  desc.SniffedMIME,
		MIMEMismatch: desc.MIMEMismatch,
	}

	switch v := m.(type) {
	case *Tabular:
		a.Tabular = tabularStats(v)
	case *PagedText:
		a.Paged = pagedStats(v)
	case *RichText:
		a.Rich = richStats(v.Text)
	case *PlainText:
		a.Rich = richStats(v.Text)
	case *SourceText:
		a.Source = &SourceStats{Lines: v.Lines, Characters: v.Size}
		if ext == "xml" {
			a.Feed = summarizeFeed(v.Raw)
		}
	case *ImageRef:
		a.Image = &ImageStats{Format: v.Format, Width: v.Width, Height: v.Height}
	}

	a.EstimatedSeconds = estimateSeconds(sizeMiB, ext)
	a.SpeedTier = speedTier(a.EstimatedSeconds)
	a.Recommended = recommendTargets(ext, sizeMiB)
	a.Tips = adviseTips(ext, sizeMiB)
	return a
}

func tabularStats(t *Tabular) *TabularStats {
	s := &TabularStats{Rows: len(t.Rows), Sheets: t.SheetCount}
	if len(t.Rows) > 0 {
		s.Columns = len(t.Rows[0])
	}
	s.Cells = s.Rows * s.Columns
	s.LargeTable = s.Rows > largeTableRows
	return s
}

func pagedStats(p *PagedText) *PagedStats {
	s := &PagedStats{
		Pages:          p.PageCount,
		PagesProcessed: p.ActualPagesProcessed,
		Words:          wordCount(p.Text),
		Characters:     charCount(p.Text),
	}
	// Averaged over the whole document, halves rounded up.
	if s.Pages > 0 {
		s.AverageWordsPerPage = int(math.Floor(float64(s.Words)/float64(s.Pages) + 0.5))
	}
	return s
}

func richStats(text string) *RichStats {
	words := wordCount(text)
	return &RichStats{
		Words:          words,
		Characters:     charCount(text),
		Pages:          ceilDiv(words, wordsPerPage),
		ReadingMinutes: ceilDiv(words, wordsPerMinute),
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// complexity scales the per-MiB estimate for formats that are slower to
// render.
var complexity = map[string]float64{
	"pdf":  2.0,
	"xlsx": 1.5,
	"docx": 1.3,
	"txt":  0.5,
}

func estimateSeconds(sizeMiB float64, ext string) float64 {
	mult, ok := complexity[ext]
	if !ok {
		mult = 1.0
	}
	return sizeMiB * secondsPerMiB * mult
}

func speedTier(seconds float64) SpeedTier {
	switch {
	case seconds < 1:
		return TierInstant
	case seconds < 3:
		return TierFast
	case seconds < 10:
		return TierModerate
	case seconds < 30:
		return TierSlow
	}
	return TierLong
}

// recommendTargets applies the fixed decision table: size first, then
// category, then the first matrix entry for the extension.
func recommendTargets(ext string, sizeMiB float64) []string {
	switch {
	case sizeMiB > recommendSizeMiB:
		return []string{FormatTXT, FormatCSV}
	case CategoryOf(ext) == CategorySpreadsheet:
		return []string{FormatPDF, FormatJSON}
	case ext == "pdf":
		return []string{FormatTXT}
	case ext == "docx":
		return []string{FormatPDF}
	}
	if row := conversionMatrix[ext]; len(row) > 0 {
		return []string{row[0]}
	}
	return []string{FormatPDF}
}

func adviseTips(ext string, sizeMiB float64) []Tip {
	var tips []Tip
	switch {
	case sizeMiB > recommendSizeMiB:
		tips = append(tips, TipLargeFile)
	case sizeMiB < optimalSizeMiBThreshold:
		tips = append(tips, TipOptimalSize)
	}
	switch {
	case CategoryOf(ext) == CategorySpreadsheet:
		tips = append(tips, TipSpreadsheetUse)
	case ext == "pdf":
		tips = append(tips, TipPDFEditing)
	case ext == "docx":
		tips = append(tips, TipDocumentSharing)
	}
	return append(tips, TipAutoDownload, TipMultipleTargets)
}
