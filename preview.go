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
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// DefaultPreviewRows bounds the rows or lines shown by Preview when the
// caller passes a non-positive limit.
const DefaultPreviewRows = 20

var reDataURI = regexp.MustCompile(`(data:[a-zA-Z0-9/+.-]+;base64,)[A-Za-z0-9+/=]{64,}`)

// Preview renders the first part of a model as Markdown for display next to
// the conversion options.
func Preview(m ContentModel, maxRows int) (string, error) {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}
	switch v := m.(type) {
	case *Tabular:
		rows := v.Rows
		if len(rows) > maxRows+1 {
			rows = rows[:maxRows+1]
		}
		return renderMarkdownTable(rows), nil
	case *RichText:
		md, err := htmlToMarkdown(v.HTML)
		if err != nil {
			return "", fmt.Errorf("render preview: %w", err)
		}
		return firstLines(md, maxRows), nil
	case *PagedText:
		for _, page := range v.Pages {
			if strings.TrimSpace(page) != "" {
				return firstLines(page, maxRows), nil
			}
		}
		return "", nil
	case *PlainText:
		return firstLines(v.Text, maxRows), nil
	case *SourceText:
		return "```" + v.Language + "\n" + firstLines(v.Formatted, maxRows) + "\n```\n", nil
	case *ImageRef:
		target := v.Name
		if d := v.Display(); d != nil && !d.Released() {
			target = d.URL()
		}
		return fmt.Sprintf("![%s](%s)\n\n%s, %dx%d, %s\n", v.Name, target,
			strings.ToUpper(v.Format), v.Width, v.Height, FormatSize(v.Size)), nil
	}
	return "", fmt.Errorf("render preview: unsupported content %T", m)
}

// htmlToMarkdown converts an HTML fragment and shortens embedded data URIs.
func htmlToMarkdown(fragment string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(fragment)
	if err != nil {
		return "", err
	}
	return reDataURI.ReplaceAllString(md, "${1}..."), nil
}

// renderMarkdownTable renders the first row as the header. Pipes inside cells
// are escaped.
func renderMarkdownTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	numCols := len(rows[0])

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < numCols; i++ {
			b.WriteString(" ")
			if i < len(row) {
				b.WriteString(previewCell(row[i]))
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < numCols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

var previewCellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

func previewCell(s string) string {
	return previewCellEscaper.Replace(s)
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
