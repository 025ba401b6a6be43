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
	"bytes"
	"context"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Fixed page geometry, in points.
const (
	pdfPageWidth    = 595.0
	pdfPageHeight   = 842.0
	pdfMargin       = 50.0
	pdfFontSize     = 11.0
	pdfLineHeight   = 14.0
	pdfTopBaseline  = 800.0
	pdfContentWidth = pdfPageWidth - 2*pdfMargin

	pdfChunkSize           = 3500
	pdfChunksPerCheckpoint = 10
)

// PDFConverter renders the flat text of any model onto A4 pages in 11pt
// Helvetica.
type PDFConverter struct{}

// NewPDFConverter creates a new PDFConverter.
func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

func (c *PDFConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	text, err := flatText(m, ", ")
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be flattened to text", err)
	}
	data, err := renderPDF(ctx, text, job)
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the PDF could not be rendered", err)
	}
	return newArtifact(data, MIMEPDF, job), nil
}

func renderPDF(ctx context.Context, text string, job ConvertJob) ([]byte, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pdfPageWidth, Ht: pdfPageHeight},
	})
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", pdfFontSize)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	measure := func(s string) float64 {
		return doc.GetStringWidth(tr(s))
	}

	pages, err := layoutPDF(text, measure, newPDFCheckpoints(ctx, text, job))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		doc.AddPage()
		y := pdfTopBaseline
		for _, line := range page {
			if line != "" {
				doc.Text(pdfMargin, pdfPageHeight-y, tr(line))
			}
			y -= pdfLineHeight
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// layoutPDF splits text into pages of wrapped lines. The cursor starts at
// pdfTopBaseline, drops pdfLineHeight per line and a new page begins once it
// falls below the bottom margin.
func layoutPDF(text string, measure func(string) float64, cp *pdfCheckpoints) ([][]string, error) {
	var (
		pages [][]string
		page  []string
		y     = pdfTopBaseline
	)
	for _, raw := range strings.Split(normalizeNewlines(text), "\n") {
		for _, line := range wrapLine(keepLatinPrintable(raw), pdfContentWidth, measure) {
			if page == nil || y < pdfMargin {
				if page != nil {
					pages = append(pages, page)
				}
				page = []string{}
				y = pdfTopBaseline
			}
			page = append(page, line)
			y -= pdfLineHeight
		}
		if err := cp.advance(charCount(raw) + 1); err != nil {
			return nil, err
		}
	}
	cp.finish()
	return append(pages, page), nil
}

// wrapLine greedily packs space-separated words into lines no wider than
// width. A word wider than width on its own is split between runes.
func wrapLine(line string, width float64, measure func(string) float64) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Split(line, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		for measure(word) > width {
			var head string
			head, word = splitToWidth(word, width, measure)
			lines = append(lines, head)
		}
		current = word
	}
	if current != "" || len(lines) == 0 {
		lines = append(lines, current)
	}
	return lines
}

// splitToWidth returns the longest rune prefix of word that fits in width,
// never less than one rune, and the remainder.
func splitToWidth(word string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// pdfCheckpoints reports progress and observes cancellation every
// pdfChunksPerCheckpoint chunks of pdfChunkSize characters. It is only active
// for sources above LargeFileThreshold.
type pdfCheckpoints struct {
	ctx      context.Context
	progress ProgressFunc
	enabled  bool
	total    int
	consumed int
	next     int
}

func newPDFCheckpoints(ctx context.Context, text string, job ConvertJob) *pdfCheckpoints {
	cp := &pdfCheckpoints{ctx: ctx, progress: job.Progress}
	n := charCount(text)
	if job.SourceSize > LargeFileThreshold && n > pdfChunkSize {
		cp.enabled = true
		cp.total = (n + pdfChunkSize - 1) / pdfChunkSize
		cp.next = pdfChunkSize * pdfChunksPerCheckpoint
	}
	return cp
}

func (cp *pdfCheckpoints) advance(chars int) error {
	if !cp.enabled {
		return nil
	}
	cp.consumed += chars
	for cp.consumed >= cp.next && cp.next/pdfChunkSize < cp.total {
		if err := cp.ctx.Err(); err != nil {
			return err
		}
		if cp.progress != nil {
			cp.progress(cp.next/pdfChunkSize, cp.total)
		}
		cp.next += pdfChunkSize * pdfChunksPerCheckpoint
	}
	return nil
}

func (cp *pdfCheckpoints) finish() {
	if cp.enabled && cp.progress != nil {
		cp.progress(cp.total, cp.total)
	}
}
