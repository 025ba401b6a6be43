package fileconv

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFname,qty\napple,3\n\npear\n\n")
	tab, ok := mustExtract(t, "fruit.csv", data).(*Tabular)
	if !ok {
		t.Fatal("csv did not extract to Tabular")
	}
	wantRows := [][]string{{"name", "qty"}, {"apple", "3"}, {"pear", ""}}
	if !reflect.DeepEqual(tab.Rows, wantRows) {
		t.Errorf("Rows = %q, want %q", tab.Rows, wantRows)
	}
	if len(tab.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(tab.Records))
	}
	if got := tab.Records[1].Get("qty"); got != "" {
		t.Errorf("short row qty = %q, want empty", got)
	}
	if tab.SheetCount != 1 || tab.SheetNames[0] != "Sheet1" {
		t.Errorf("sheets = %v/%d", tab.SheetNames, tab.SheetCount)
	}
}

func TestExtractXLSX(t *testing.T) {
	data := buildTestXLSX(t, [][]any{
		{"city", "pop"},
		{"Oslo", 709037},
		{"Bergen", 291940},
	}, "Notes")
	tab := mustExtract(t, "cities.xlsx", data).(*Tabular)
	if len(tab.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(tab.Rows))
	}
	if tab.Rows[1][1] != "709037" {
		t.Errorf("cell B2 = %q", tab.Rows[1][1])
	}
	if tab.SheetCount != 2 || !reflect.DeepEqual(tab.SheetNames, []string{"Sheet1", "Notes"}) {
		t.Errorf("sheets = %v (%d)", tab.SheetNames, tab.SheetCount)
	}
}

func TestExtractSpreadsheetErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want Kind
	}{
		{"corrupt xlsx", "a.xlsx", []byte("not a zip at all"), KindParseFailure},
		{"corrupt xls", "a.xls", []byte("not a compound document"), KindParseFailure},
		{"blank csv", "a.csv", []byte("\n , \n"), KindEmptyContent},
		{"empty workbook", "a.xlsx", buildTestXLSX(t, nil), KindEmptyContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract(t, tt.file, tt.data)
			if !IsKind(err, tt.want) {
				t.Errorf("err = %v, want kind %s", err, tt.want)
			}
		})
	}
}

func TestExtractXLSFixture(t *testing.T) {
	path := "testdata/test.xls"
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skipf("test fixture %s not found", path)
	}
	if err != nil {
		t.Fatal(err)
	}

	tab, ok := mustExtract(t, "test.xls", data).(*Tabular)
	if !ok {
		t.Fatal("xls did not extract to Tabular")
	}
	if tab.SheetCount == 0 || len(tab.Rows) == 0 {
		t.Fatalf("sheets = %d, rows = %d", tab.SheetCount, len(tab.Rows))
	}
	text := joinRows(tab.Rows, " ")
	for _, want := range []string{
		"09060124-b5e7-4717-9d07-3c046eb",
		"6ff4173b-42a5-4784-9b19-f49caff4d93d",
		"affc7dad-52dc-4b98-9b5d-51e65d8a8ad0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted rows missing %q", want)
		}
	}
}

func TestExtractCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, name := range []string{"a.csv", "a.docx", "a.pdf", "a.txt", "a.json", "a.png"} {
		t.Run(name, func(t *testing.T) {
			ext := ExtensionOf(name)
			_, err := New().Extract(ctx, Source{
				Data:      []byte("data"),
				Name:      name,
				Extension: ext,
				Category:  CategoryOf(ext),
			})
			if !IsKind(err, KindParseFailure) {
				t.Errorf("err = %v, want kind %s", err, KindParseFailure)
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("err = %v does not wrap context.Canceled", err)
			}
		})
	}
}

func TestHeaderKeys(t *testing.T) {
	got := headerKeys([]string{"a", "", "a", " ", "a_1", "a"})
	want := []string{"a", "__EMPTY", "a_1", "__EMPTY_1", "a_1_1", "a_2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("headerKeys = %q, want %q", got, want)
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	rec := Record{
		Keys:   []string{"z", "a", "n"},
		Values: map[string]string{"z": "last", "a": "007", "n": "1.5"},
	}
	got, err := rec.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"z":"last","a":"007","n":1.5}` {
		t.Errorf("MarshalJSON = %s", got)
	}
}

func TestExtractText(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		pt := mustExtract(t, "a.txt", []byte("  hello\nworld \n")).(*PlainText)
		if pt.Text != "hello\nworld" {
			t.Errorf("Text = %q", pt.Text)
		}
	})
	t.Run("empty", func(t *testing.T) {
		_, err := extract(t, "a.txt", []byte(" \n\t"))
		if !IsKind(err, KindEmptyContent) {
			t.Errorf("err = %v, want EmptyContent", err)
		}
	})
	t.Run("json source", func(t *testing.T) {
		st := mustExtract(t, "a.json", []byte(`{"x":1,"y":[true]}`)).(*SourceText)
		want := "{\n  \"x\": 1,\n  \"y\": [\n    true\n  ]\n}"
		if st.Formatted != want {
			t.Errorf("Formatted = %q, want %q", st.Formatted, want)
		}
		if st.Lines != 1 || st.Language != "json" {
			t.Errorf("Lines = %d, Language = %q", st.Lines, st.Language)
		}
	})
	t.Run("broken json", func(t *testing.T) {
		st := mustExtract(t, "a.json", []byte(`{"x":`)).(*SourceText)
		if st.Formatted != st.Raw {
			t.Errorf("Formatted = %q, want raw", st.Formatted)
		}
	})
	t.Run("xml source", func(t *testing.T) {
		st := mustExtract(t, "a.xml", []byte("<a><b>é</b></a>")).(*SourceText)
		if st.Formatted != "<a>\n<b>é</b>\n</a>" {
			t.Errorf("Formatted = %q", st.Formatted)
		}
		if st.Size != 15 {
			t.Errorf("Size = %d, want 15 runes", st.Size)
		}
	})
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("héllo"), "héllo"},
		{"bom", []byte("\xEF\xBB\xBFabc"), "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeText(tt.in); got != tt.want {
				t.Errorf("decodeText = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("invalid bytes become valid utf8", func(t *testing.T) {
		got := decodeText([]byte("caf\xe9 cr\xe8me br\xfbl\xe9e, na\xefve fa\xe7ade"))
		if !utf8.ValidString(got) {
			t.Fatalf("decodeText returned invalid UTF-8: %q", got)
		}
		if !strings.HasPrefix(got, "caf") {
			t.Errorf("decodeText = %q", got)
		}
	})
}

func TestLookupEncoding(t *testing.T) {
	for _, label := range []string{"Shift_JIS", "windows-1252", "GB-18030", "UTF-16LE", "ISO-8859-1"} {
		if lookupEncoding(label) == nil {
			t.Errorf("lookupEncoding(%q) = nil", label)
		}
	}
	if lookupEncoding("klingon") != nil {
		t.Error("lookupEncoding accepted an unknown label")
	}
}
