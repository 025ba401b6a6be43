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
	"encoding/xml"
	"strings"

	"github.com/nicholasgasior/fileconv-go/internal/ooxml"
)

// DOCXConverter writes the flat text of any model as a minimal
// WordprocessingML package with one paragraph per line.
type DOCXConverter struct{}

// NewDOCXConverter creates a new DOCXConverter.
func NewDOCXConverter() *DOCXConverter {
	return &DOCXConverter{}
}

func (c *DOCXConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	text, err := flatText(m, ", ")
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be flattened to text", err)
	}
	data, err := buildDocx(strings.Split(normalizeNewlines(text), "\n"))
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the word document could not be written", err)
	}
	return newArtifact(data, MIMEDOCX, job), nil
}

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + ooxml.NSWordprocessingML + `"><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`

func buildDocx(lines []string) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="` + ooxml.NSWordprocessingML + `"><w:body>`)
	for _, line := range lines {
		if line == "" {
			body.WriteString("<w:p/>")
			continue
		}
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(line)); err != nil {
			return nil, err
		}
		body.WriteString("</w:t></w:r></w:p>")
	}
	// A4 portrait with one-inch margins, in twentieths of a point.
	body.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)

	w := ooxml.NewWriter()
	w.Relate("", ooxml.RelTypeOfficeDocument, docxMainPart)
	w.Relate(docxMainPart, ooxml.RelTypeStyles, "styles.xml")
	w.AddPart(docxMainPart, ooxml.ContentTypeMainDocument, body.Bytes())
	w.AddPart("word/styles.xml", ooxml.ContentTypeStyles, []byte(docxStyles))
	return w.Bytes()
}
