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
	"encoding/json"
	"strconv"
	"sync"
)

// Variant tags the ContentModel implementations.
type Variant int

const (
	VariantTabular Variant = iota + 1
	VariantRichText
	VariantPagedText
	VariantPlainText
	VariantSourceText
	VariantImageRef
)

func (v Variant) String() string {
	switch v {
	case VariantTabular:
		return "tabular"
	case VariantRichText:
		return "rich_text"
	case VariantPagedText:
		return "paged_text"
	case VariantPlainText:
		return "plain_text"
	case VariantSourceText:
		return "source_text"
	case VariantImageRef:
		return "image_ref"
	}
	return "unknown"
}

// ContentModel is the normalized representation produced by an extractor and
// consumed by converters. Exactly one implementation is produced per file.
type ContentModel interface {
	Variant() Variant
}

// Tabular holds the first sheet of a spreadsheet.
type Tabular struct {
	// Rows is the array-of-arrays projection. Every row is padded with "" to
	// the widest row.
	Rows [][]string `json:"array"`
	// Records is the list-of-records projection keyed by first-row headers.
	Records    []Record `json:"json"`
	SheetNames []string `json:"sheetNames"`
	SheetCount int      `json:"sheetCount"`
}

func (*Tabular) Variant() Variant { return VariantTabular }

// Record is one data row keyed by header, preserving header order.
type Record struct {
	Keys   []string
	Values map[string]string
}

// Get returns the value stored under key.
func (r Record) Get(key string) string {
	return r.Values[key]
}

// MarshalJSON writes the record as an object in header order. Cells that are
// valid JSON numbers are written as numbers.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := jsonScalar(r.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RichText holds a word-processor document converted to HTML.
type RichText struct {
	HTML string `json:"html"`
	// Text is HTML with tags replaced by spaces and whitespace runs collapsed.
	Text     string   `json:"text"`
	Messages []string `json:"messages"`
}

func (*RichText) Variant() Variant { return VariantRichText }

// PagedText holds text extracted from a PDF, one entry per processed page.
type PagedText struct {
	Text                 string   `json:"text"`
	Pages                []string `json:"pages"`
	PageCount            int      `json:"pageCount"`
	ActualPagesProcessed int      `json:"actualPagesProcessed"`
}

func (*PagedText) Variant() Variant { return VariantPagedText }

// PlainText holds a decoded, trimmed text file.
type PlainText struct {
	Text string
}

func (*PlainText) Variant() Variant { return VariantPlainText }

// MarshalJSON writes the text as a bare JSON string.
func (p *PlainText) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Text)
}

// SourceText holds a source-code or markup file.
type SourceText struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
	Lines     int    `json:"lines"`
	Size      int    `json:"size"`
	// Language is the source extension (json, xml, html, css, js).
	Language string `json:"-"`
}

func (*SourceText) Variant() Variant { return VariantSourceText }

// ImageRef wraps the original image bytes. Pixels are decoded only when a
// conversion asks for them.
type ImageRef struct {
	Data   []byte
	Name   string
	Format string
	Size   int64
	Width  int
	Height int

	mu      sync.Mutex
	minter  DisplayMinter
	display *DisplayRef
	retired bool
}

func (*ImageRef) Variant() Variant { return VariantImageRef }

// Display returns the live preview handle, minting a new one when the last
// was swept. Images without a minter, and images already released, return
// whatever handle they last held, possibly nil.
func (img *ImageRef) Display() *DisplayRef {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.retired || img.minter == nil {
		return img.display
	}
	if img.display == nil || img.display.Released() {
		img.display = img.minter.Acquire()
	}
	return img.display
}

// Release revokes the display reference held by the image. No handle is
// minted for it afterwards.
func (img *ImageRef) Release() {
	img.mu.Lock()
	img.retired = true
	d := img.display
	img.mu.Unlock()
	if d != nil {
		d.Release()
	}
}

// MarshalJSON omits the raw bytes.
func (img *ImageRef) MarshalJSON() ([]byte, error) {
	out := struct {
		URL    string `json:"url,omitempty"`
		Type   string `json:"type"`
		Name   string `json:"name"`
		Size   int64  `json:"size"`
		Width  int    `json:"width,omitempty"`
		Height int    `json:"height,omitempty"`
	}{
		Type:   img.Format,
		Name:   img.Name,
		Size:   img.Size,
		Width:  img.Width,
		Height: img.Height,
	}
	if d := img.Display(); d != nil && !d.Released() {
		out.URL = d.URL()
	}
	return json.Marshal(out)
}

// jsonScalar encodes s as a JSON number when it already is one, else as a string.
func jsonScalar(s string) ([]byte, error) {
	if isJSONNumber(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}

// dumpJSON serializes the whole model, the last-resort projection used by
// several converters. indent=false gives the compact form.
func dumpJSON(m ContentModel, indent bool) (string, error) {
	data, err := encodeJSON(m, indent)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeJSON marshals v without HTML escaping, with two-space indentation
// when indent is set.
func encodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
