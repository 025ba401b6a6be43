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
	"unicode"
)

const xmlProlog = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<root>\n"

// XMLConverter writes content under a <root> element.
type XMLConverter struct{}

// NewXMLConverter creates a new XMLConverter.
func NewXMLConverter() *XMLConverter {
	return &XMLConverter{}
}

// Convert emits one <item> per record, else one <row> per data row, else a
// single <data> element holding a compact JSON dump.
func (c *XMLConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	var b strings.Builder
	b.WriteString(xmlProlog)

	t, _ := m.(*Tabular)
	switch {
	case t != nil && len(t.Records) > 0:
		for i, rec := range t.Records {
			fmt.Fprintf(&b, "  <item index=\"%d\">\n", i)
			for _, k := range rec.Keys {
				writeXMLField(&b, k, rec.Get(k))
			}
			b.WriteString("  </item>\n")
		}
	case t != nil && len(t.Rows) > 0:
		header := t.Rows[0]
		for i := 1; i < len(t.Rows); i++ {
			fmt.Fprintf(&b, "  <row index=\"%d\">\n", i)
			for j, h := range header {
				var value string
				if j < len(t.Rows[i]) {
					value = t.Rows[i][j]
				}
				writeXMLField(&b, h, value)
			}
			b.WriteString("  </row>\n")
		}
	default:
		dump, err := dumpJSON(m, false)
		if err != nil {
			return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be serialized", err)
		}
		b.WriteString("  <data>" + escapeXML(dump) + "</data>\n")
	}

	b.WriteString("</root>")
	return newArtifact([]byte(b.String()), MIMEXML, job), nil
}

func writeXMLField(b *strings.Builder, name, value string) {
	tag := xmlName(name)
	b.WriteString("    <" + tag + ">" + escapeXML(value) + "</" + tag + ">\n")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// xmlName turns a column header into a well-formed element name. Invalid
// characters become underscores, and names that cannot start an element or
// that begin with "xml" get a leading underscore.
func xmlName(s string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, strings.TrimSpace(s))

	if name == "" {
		return "_"
	}
	first := []rune(name)[0]
	if !unicode.IsLetter(first) && first != '_' {
		return "_" + name
	}
	if strings.HasPrefix(strings.ToLower(name), "xml") {
		return "_" + name
	}
	return name
}
