package ooxml

import (
	"strings"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	if id := w.Relate("", RelTypeOfficeDocument, "word/document.xml"); id != "rId1" {
		t.Errorf("first root relationship = %s, want rId1", id)
	}
	w.Relate("word/document.xml", RelTypeStyles, "styles.xml")
	if id := w.Relate("word/document.xml", RelTypeStyles, "other.xml"); id != "rId2" {
		t.Errorf("second document relationship = %s, want rId2", id)
	}
	w.AddPart("word/document.xml", ContentTypeMainDocument, []byte("<doc/>"))

	data, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	zr, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}

	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	want := "[Content_Types].xml,_rels/.rels,word/_rels/document.xml.rels,word/document.xml"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("parts = %s, want %s", got, want)
	}

	types, err := ReadFile(zr, "[Content_Types].xml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(types), `PartName="/word/document.xml"`) {
		t.Errorf("content types missing override: %s", types)
	}

	rels, err := ParseRelationships(zr, RelsPathFor("word/document.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if rels["rId1"].Target != "styles.xml" || rels["rId2"].Target != "other.xml" {
		t.Errorf("relationships = %+v", rels)
	}

	body, err := ReadFile(zr, "word/document.xml")
	if err != nil || string(body) != "<doc/>" {
		t.Errorf("document part = %q, %v", body, err)
	}
}

func TestParseRelationshipsMissingPart(t *testing.T) {
	data, err := NewWriter().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	zr, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	rels, err := ParseRelationships(zr, "word/_rels/document.xml.rels")
	if err != nil || len(rels) != 0 {
		t.Errorf("ParseRelationships = %v, %v; want empty map", rels, err)
	}
	if _, err := ReadFile(zr, "nope.xml"); err == nil {
		t.Error("ReadFile found a missing part")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := Open([]byte("not a zip")); err == nil {
		t.Error("Open accepted non-zip data")
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		fn, in, target, want string
	}{
		{"rels", "word/document.xml", "", "word/_rels/document.xml.rels"},
		{"rels", "document.xml", "", "_rels/document.xml.rels"},
		{"resolve", "word/document.xml", "media/a.png", "word/media/a.png"},
		{"resolve", "word/document.xml", "../customXml/item.xml", "customXml/item.xml"},
		{"resolve", "word/document.xml", "/word/media/b.png", "word/media/b.png"},
	}
	for _, tt := range tests {
		var got string
		if tt.fn == "rels" {
			got = RelsPathFor(tt.in)
		} else {
			got = ResolveTarget(tt.in, tt.target)
		}
		if got != tt.want {
			t.Errorf("%s(%q, %q) = %q, want %q", tt.fn, tt.in, tt.target, got, tt.want)
		}
	}
}
