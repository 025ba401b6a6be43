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
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const htmlTimestampLayout = "2006-01-02 15:04:05"

// HTMLConverter wraps the content in a complete, styled HTML document.
type HTMLConverter struct{}

// NewHTMLConverter creates a new HTMLConverter.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

// Convert embeds rich-text markup as is, renders tabular content as a table
// and dumps everything else as escaped, preformatted JSON.
func (c *HTMLConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	var body string
	if rt, ok := m.(*RichText); ok {
		body = rt.HTML
	} else if rows := tableRows(m); rows != nil {
		body = htmlTable(rows)
	} else {
		dump, err := dumpJSON(m, true)
		if err != nil {
			return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be serialized", err)
		}
		body = `<pre class="dump">` + html.EscapeString(dump) + "</pre>"
	}
	doc := htmlDocument(job.BaseName, body, job.Now.Format(htmlTimestampLayout))
	return newArtifact([]byte(doc), MIMEHTML, job), nil
}

// htmlTable renders the first row as header cells and the rest as body cells.
func htmlTable(rows [][]string) string {
	if len(rows) == 0 {
		return "<p>No data</p>"
	}
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, cell := range rows[0] {
		b.WriteString("<th>" + html.EscapeString(cell) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows[1:] {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func htmlDocument(title, body, generated string) string {
	title = html.EscapeString(title)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.6; max-width: 1200px; margin: 0 auto; padding: 40px 20px; background: #f8f9fa; }
h1 { color: #4a5bd4; border-bottom: 3px solid #4a5bd4; padding-bottom: 12px; margin-bottom: 28px; }
table { border-collapse: collapse; width: 100%%; margin: 20px 0; background: #fff; }
th, td { padding: 10px 14px; text-align: left; border-bottom: 1px solid #e0e0e0; }
th { background: #4a5bd4; color: #fff; font-weight: 600; }
pre.dump { font-family: "Courier New", monospace; padding: 20px; background: #f0f0f0; overflow-x: auto; }
.footer { margin-top: 40px; padding-top: 16px; border-top: 1px solid #e0e0e0; text-align: center; color: #888; font-size: 14px; }
@media print { body { background: #fff; } }
</style>
</head>
<body>
<h1>%s</h1>
%s
<div class="footer"><p>Generated %s</p></div>
</body>
</html>
`, title, title, body, generated)
}
