package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
)

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Xmlns     string                `xml:"xmlns,attr"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

type part struct {
	name string
	data []byte
}

// Writer assembles a package in memory. Parts are written in the order they
// are added, after [Content_Types].xml.
type Writer struct {
	parts     []part
	overrides []contentTypeOverride
	rels      map[string][]Relationship
	relOrder  []string
}

// NewWriter returns an empty package writer.
func NewWriter() *Writer {
	return &Writer{rels: make(map[string][]Relationship)}
}

// AddPart stores data under name with the given content type.
func (w *Writer) AddPart(name, contentType string, data []byte) {
	w.parts = append(w.parts, part{name: name, data: data})
	w.overrides = append(w.overrides, contentTypeOverride{
		PartName:    "/" + name,
		ContentType: contentType,
	})
}

// Relate adds a relationship from source ("" for the package root) to target
// and returns its ID.
func (w *Writer) Relate(source, relType, target string) string {
	relsPath := "_rels/.rels"
	if source != "" {
		relsPath = RelsPathFor(source)
	}
	if _, ok := w.rels[relsPath]; !ok {
		w.relOrder = append(w.relOrder, relsPath)
	}
	id := fmt.Sprintf("rId%d", len(w.rels[relsPath])+1)
	w.rels[relsPath] = append(w.rels[relsPath], Relationship{ID: id, Type: relType, Target: target})
	return id
}

// Bytes serializes the package.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	types := contentTypes{
		Xmlns: NSContentTypes,
		Defaults: []contentTypeDefault{
			{Extension: "rels", ContentType: ContentTypeRels},
			{Extension: "xml", ContentType: ContentTypeXML},
		},
		Overrides: w.overrides,
	}
	if err := writeXML(zw, "[Content_Types].xml", types); err != nil {
		return nil, err
	}
	for _, relsPath := range w.relOrder {
		rels := Relationships{Xmlns: NSRelationships, Relationships: w.rels[relsPath]}
		if err := writeXML(zw, relsPath, rels); err != nil {
			return nil, err
		}
	}
	for _, p := range w.parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXML(zw *zip.Writer, name string, v any) error {
	data, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write([]byte(xml.Header)); err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
