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
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"

	"github.com/nicholasgasior/fileconv-go/internal/ooxml"
)

const docxMainPart = "word/document.xml"

// RichDocumentExtractor turns a WordprocessingML package into RichText.
type RichDocumentExtractor struct{}

// NewRichDocumentExtractor creates a new RichDocumentExtractor.
func NewRichDocumentExtractor() *RichDocumentExtractor {
	return &RichDocumentExtractor{}
}

func (e *RichDocumentExtractor) Extract(ctx context.Context, src Source) (ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, extractionCancelled(src.Category, err)
	}

	doc, err := openDocx(src.Data)
	if err != nil {
		return nil, extractionFailed(src.Category, KindParseFailure, "the word document could not be read", err)
	}
	body, err := ooxml.ReadFile(doc.zr, docxMainPart)
	if err != nil {
		return nil, extractionFailed(src.Category, KindParseFailure, "the word document has no main part", err)
	}

	markup := doc.toHTML(body)
	text := html.UnescapeString(stripMarkup(markup))
	if text == "" {
		return nil, extractionFailed(src.Category, KindEmptyContent, "the word document contains no text", nil)
	}
	return &RichText{HTML: markup, Text: text, Messages: doc.messages}, nil
}

// docxDocument carries the package-level lookups needed while walking the body.
type docxDocument struct {
	zr        *zip.Reader
	rels      map[string]ooxml.Relationship
	styles    map[string]string
	listKinds map[string]map[int]string
	messages  []string
}

func openDocx(data []byte) (*docxDocument, error) {
	zr, err := ooxml.Open(data)
	if err != nil {
		return nil, err
	}
	rels, err := ooxml.ParseRelationships(zr, ooxml.RelsPathFor(docxMainPart))
	if err != nil {
		return nil, err
	}
	return &docxDocument{
		zr:        zr,
		rels:      rels,
		styles:    parseDocxStyles(zr),
		listKinds: parseDocxNumbering(zr),
	}, nil
}

type docxStylesPart struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// parseDocxStyles maps style IDs to style names. A missing or broken styles
// part leaves headings to be detected from the ID alone.
func parseDocxStyles(zr *zip.Reader) map[string]string {
	styles := make(map[string]string)
	data, err := ooxml.ReadFile(zr, "word/styles.xml")
	if err != nil {
		return styles
	}
	var part docxStylesPart
	if xml.Unmarshal(data, &part) != nil {
		return styles
	}
	for _, s := range part.Styles {
		styles[s.ID] = s.Name.Val
	}
	return styles
}

type docxNumberingPart struct {
	Abstract []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Level  int `xml:"ilvl,attr"`
			NumFmt struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID       string `xml:"numId,attr"`
		Abstract struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

// parseDocxNumbering resolves every numId to the list tag (ul or ol) of each
// of its levels.
func parseDocxNumbering(zr *zip.Reader) map[string]map[int]string {
	kinds := make(map[string]map[int]string)
	data, err := ooxml.ReadFile(zr, "word/numbering.xml")
	if err != nil {
		return kinds
	}
	var part docxNumberingPart
	if xml.Unmarshal(data, &part) != nil {
		return kinds
	}
	abstract := make(map[string]map[int]string, len(part.Abstract))
	for _, a := range part.Abstract {
		levels := make(map[int]string, len(a.Levels))
		for _, lvl := range a.Levels {
			tag := "ol"
			if lvl.NumFmt.Val == "bullet" || lvl.NumFmt.Val == "none" {
				tag = "ul"
			}
			levels[lvl.Level] = tag
		}
		abstract[a.ID] = levels
	}
	for _, n := range part.Nums {
		kinds[n.ID] = abstract[n.Abstract.Val]
	}
	return kinds
}

func (d *docxDocument) listTag(numID string, level int) string {
	if tag, ok := d.listKinds[numID][level]; ok {
		return tag
	}
	return "ul"
}

type docxParagraph struct {
	styleID string
	numID   string
	level   int
}

type docxRun struct {
	bold, italic, underline, strike bool
}

func (r docxRun) wrap(s string) string {
	if r.bold {
		s = "<strong>" + s + "</strong>"
	}
	if r.italic {
		s = "<em>" + s + "</em>"
	}
	if r.underline {
		s = "<u>" + s + "</u>"
	}
	if r.strike {
		s = "<s>" + s + "</s>"
	}
	return s
}

// toHTML walks the body part and renders headings, paragraphs, lists, tables
// and inline images as an HTML fragment.
func (d *docxDocument) toHTML(body []byte) string {
	var (
		out        strings.Builder
		para       strings.Builder
		text       strings.Builder
		cell       strings.Builder
		row        []string
		rows       [][]string
		openList   string
		p          docxParagraph
		run        docxRun
		inRun      bool
		inText     bool
		link       string
		tableDepth int
	)

	closeList := func() {
		if openList != "" {
			out.WriteString("</" + openList + ">")
			openList = ""
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p = docxParagraph{}
				para.Reset()
			case "pStyle":
				p.styleID = attrValue(t, "val")
			case "numId":
				p.numID = attrValue(t, "val")
			case "ilvl":
				p.level, _ = strconv.Atoi(attrValue(t, "val"))
			case "r":
				run = docxRun{}
				inRun = true
			case "b":
				run.bold = toggleOn(t)
			case "i":
				run.italic = toggleOn(t)
			case "u":
				run.underline = attrValue(t, "val") != "none"
			case "strike":
				run.strike = toggleOn(t)
			case "t":
				inText = true
				text.Reset()
			case "tab":
				if inRun {
					para.WriteString("\t")
				}
			case "br":
				if inRun {
					para.WriteString("<br/>")
				}
			case "hyperlink":
				link = d.hyperlinkTarget(t)
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					closeList()
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cell.Reset()
				}
			case "drawing", "pict":
				para.WriteString(d.inlineImage(dec))
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				s := run.wrap(html.EscapeString(text.String()))
				if link != "" {
					s = `<a href="` + html.EscapeString(link) + `">` + s + "</a>"
				}
				para.WriteString(s)
				inText = false
			case "r":
				inRun = false
			case "hyperlink":
				link = ""
			case "p":
				content := para.String()
				if tableDepth > 0 {
					if content != "" {
						cell.WriteString("<p>" + content + "</p>")
					}
					continue
				}
				level := docxHeadingLevel(p.styleID, d.styles)
				switch {
				case content == "":
				case level > 0:
					closeList()
					fmt.Fprintf(&out, "<h%d>%s</h%d>", level, content, level)
				case p.numID != "" && p.numID != "0":
					tag := d.listTag(p.numID, p.level)
					if openList != tag {
						closeList()
						out.WriteString("<" + tag + ">")
						openList = tag
					}
					out.WriteString("<li>" + content + "</li>")
				default:
					closeList()
					out.WriteString("<p>" + content + "</p>")
				}
			case "tc":
				if tableDepth == 1 {
					row = append(row, cell.String())
				}
			case "tr":
				if tableDepth == 1 {
					rows = append(rows, row)
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 {
					out.WriteString(docxTable(rows))
				}
			}
		}
	}
	closeList()
	return out.String()
}

func docxTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<table>")
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString("<" + tag + ">" + c + "</" + tag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func (d *docxDocument) hyperlinkTarget(t xml.StartElement) string {
	for _, attr := range t.Attr {
		if attr.Name.Space == ooxml.NSRelDoc && attr.Name.Local == "id" {
			if rel, ok := d.rels[attr.Value]; ok {
				return rel.Target
			}
		}
	}
	return ""
}

// inlineImage consumes a drawing or pict element and returns an img tag with
// the picture embedded as a data URI. Pictures that cannot be resolved are
// noted in messages and rendered as nothing.
func (d *docxDocument) inlineImage(dec *xml.Decoder) string {
	var embedID, alt string
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "blip":
				embedID = attrValue(t, "embed")
			case "imagedata":
				if id := attrValue(t, "id"); id != "" {
					embedID = id
				}
			case "docPr":
				alt = attrValue(t, "descr")
			}
		case xml.EndElement:
			depth--
		}
	}
	if embedID == "" {
		return ""
	}

	rel, ok := d.rels[embedID]
	if !ok || rel.TargetMode == "External" {
		d.messages = append(d.messages, fmt.Sprintf("image %s could not be resolved", embedID))
		return ""
	}
	data, err := ooxml.ReadFile(d.zr, ooxml.ResolveTarget(docxMainPart, rel.Target))
	if err != nil {
		d.messages = append(d.messages, fmt.Sprintf("image %s is missing from the package", rel.Target))
		return ""
	}
	if alt == "" {
		alt = path.Base(rel.Target)
	}
	mime := mimetype.Detect(data).String()
	return fmt.Sprintf(`<img src="data:%s;base64,%s" alt="%s"/>`,
		mime, base64.StdEncoding.EncodeToString(data), html.EscapeString(alt))
}

// docxHeadingLevel returns 1-6 for heading styles, else 0.
func docxHeadingLevel(styleID string, styles map[string]string) int {
	if styleID == "" {
		return 0
	}
	candidates := []string{strings.ToLower(styleID), strings.ToLower(styles[styleID])}
	for _, c := range candidates {
		if c == "title" {
			return 1
		}
		rest, ok := strings.CutPrefix(c, "heading")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}

func attrValue(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

// toggleOn reads an OOXML on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggleOn(t xml.StartElement) bool {
	switch attrValue(t, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
