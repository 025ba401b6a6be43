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
	"encoding/json"
	"strings"
)

// PlainTextExtractor decodes a text file into PlainText.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a new PlainTextExtractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}
	text := strings.TrimSpace(decodeText(src.Data))
	if text == "" {
		return nil, extractionFailed(src.Category, KindEmptyContent, "the text file is empty", nil)
	}
	return &PlainText{Text: text}, nil
}

// SourceTextExtractor decodes source code and markup into SourceText.
type SourceTextExtractor struct{}

// NewSourceTextExtractor creates a new SourceTextExtractor.
func NewSourceTextExtractor() *SourceTextExtractor {
	return &SourceTextExtractor{}
}

func (e *SourceTextExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}
	raw := strings.TrimSpace(decodeText(src.Data))
	if raw == "" {
		return nil, extractionFailed(src.Category, KindEmptyContent, "the source file is empty", nil)
	}
	return &SourceText{
		Raw:       raw,
		Formatted: formatSource(raw, src.Extension),
		Lines:     strings.Count(raw, "\n") + 1,
		Size:      charCount(raw),
		Language:  src.Extension,
	}, nil
}

// formatSource pretty-prints JSON with two-space indentation and breaks XML
// between adjacent tags. Anything else, and JSON that does not parse, is
// returned unchanged.
func formatSource(raw, ext string) string {
	switch ext {
	case "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
			return raw
		}
		return buf.String()
	case "xml":
		return strings.ReplaceAll(raw, "><", ">\n<")
	}
	return raw
}
