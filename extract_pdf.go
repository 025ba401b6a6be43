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
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// MaxPDFPages caps how many pages are read from one document. Later pages are
// counted but not extracted.
const MaxPDFPages = 500

// pdfPageReader is the page-level view of a PDF the extractor needs. Pages are
// numbered from 1.
type pdfPageReader interface {
	NumPage() int
	PageText(i int) ([]string, error)
}

// PagedTextExtractor turns a PDF into PagedText.
type PagedTextExtractor struct {
	logger zerolog.Logger
	open   func(data []byte) (pdfPageReader, error)
}

// NewPagedTextExtractor creates a PagedTextExtractor backed by ledongthuc/pdf.
func NewPagedTextExtractor(logger zerolog.Logger) *PagedTextExtractor {
	return &PagedTextExtractor{logger: logger, open: openPDF}
}

func (e *PagedTextExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}
	r, err := e.open(src.Data)
	if err != nil {
		return nil, extractionFailed(src.Category, KindParseFailure, "the PDF could not be opened", err)
	}
	paged := e.readPages(r)
	if paged.Text == "" {
		return nil, extractionFailed(src.Category, KindEmptyContent,
			"no text was found in the PDF; it may be a scanned image", nil)
	}
	return paged, nil
}

// readPages reads up to MaxPDFPages pages. A page that fails to read becomes
// an empty string.
func (e *PagedTextExtractor) readPages(r pdfPageReader) *PagedText {
	total := r.NumPage()
	limit := min(total, MaxPDFPages)

	pages := make([]string, 0, limit)
	for i := 1; i <= limit; i++ {
		fragments, err := r.PageText(i)
		if err != nil {
			e.logger.Warn().Err(err).Int("page", i).Msg("PDF page could not be read")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, joinFragments(fragments))
	}

	return &PagedText{
		Text:                 strings.TrimSpace(strings.Join(pages, "\n\n")),
		Pages:                pages,
		PageCount:            total,
		ActualPagesProcessed: limit,
	}
}

// joinFragments joins the non-blank fragments of a page with single spaces.
func joinFragments(fragments []string) string {
	kept := fragments[:0:0]
	for _, f := range fragments {
		if strings.TrimSpace(f) != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

type ledongthucPages struct {
	r *pdf.Reader
}

func openPDF(data []byte) (_ pdfPageReader, err error) {
	defer recoverInto(&err, "open PDF")
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return ledongthucPages{r: r}, nil
}

func (p ledongthucPages) NumPage() int {
	return p.r.NumPage()
}

// PageText returns one fragment per text row, falling back to the raw content
// stream strings when row grouping finds nothing.
func (p ledongthucPages) PageText(i int) (fragments []string, err error) {
	defer recoverInto(&err, fmt.Sprintf("read page %d", i))

	page := p.r.Page(i)
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		fragments = append(fragments, rowText(row.Content))
	}
	if len(fragments) > 0 {
		return fragments, nil
	}
	for _, t := range page.Content().Text {
		fragments = append(fragments, t.S)
	}
	return fragments, nil
}

// rowText rebuilds a row from its glyph runs. An empty run marks a word
// boundary.
func rowText(words []pdf.Text) string {
	var line strings.Builder
	gap := false
	for _, w := range words {
		if w.S == "" {
			gap = true
			continue
		}
		if gap && line.Len() > 0 && !strings.HasSuffix(line.String(), " ") {
			line.WriteByte(' ')
		}
		line.WriteString(w.S)
		gap = false
	}
	return strings.TrimSpace(line.String())
}
