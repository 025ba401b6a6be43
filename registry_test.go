package fileconv

import (
	"reflect"
	"testing"
)

func TestAllowedTargets(t *testing.T) {
	tests := []struct {
		ext  string
		want []string
	}{
		{"xlsx", []string{"pdf", "csv", "txt", "html", "json", "xml"}},
		{".XLSX", []string{"pdf", "csv", "txt", "html", "json", "xml"}},
		{"pdf", []string{"txt", "html", "docx", "images"}},
		{"png", []string{"pdf", "jpg", "webp"}},
		{"unknown", []string{"txt", "pdf"}},
		{"gif", []string{"txt", "pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got := AllowedTargets(tt.ext)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedTargets(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestAllowedTargetsReturnsCopy(t *testing.T) {
	got := AllowedTargets("csv")
	got[0] = "mutated"
	if AllowedTargets("csv")[0] != "xlsx" {
		t.Fatal("AllowedTargets exposed the shared matrix row")
	}
}

func TestIsAllowedTarget(t *testing.T) {
	tests := []struct {
		ext, target string
		want        bool
	}{
		{"docx", "rtf", true},
		{"docx", "csv", false},
		{"csv", ".XLSX", true},
		{"zip", "txt", true},
		{"zip", "docx", false},
	}
	for _, tt := range tests {
		t.Run(tt.ext+"_"+tt.target, func(t *testing.T) {
			if got := IsAllowedTarget(tt.ext, tt.target); got != tt.want {
				t.Errorf("IsAllowedTarget(%q, %q) = %v, want %v", tt.ext, tt.target, got, tt.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		ext  string
		want Category
	}{
		{"xls", CategorySpreadsheet},
		{"DOC", CategoryDocument},
		{".pdf", CategoryPDF},
		{"txt", CategoryText},
		{"js", CategoryCode},
		{"svg", CategoryImage},
		{"ppt", CategoryPresentation},
		{"zip", CategoryArchive},
		{"ogg", CategoryAudio},
		{"webm", CategoryVideo},
		{"exe", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := CategoryOf(tt.ext); got != tt.want {
				t.Errorf("CategoryOf(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		name     string
		wantExt  string
		wantBase string
	}{
		{"report.final.XLSX", "xlsx", "report.final"},
		{"notes", "", "notes"},
		{".env", "env", "converted"},
		{"dir/photo.png", "png", "photo"},
		{"", "", "converted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtensionOf(tt.name); got != tt.wantExt {
				t.Errorf("ExtensionOf(%q) = %q, want %q", tt.name, got, tt.wantExt)
			}
			if got := BaseName(tt.name); got != tt.wantBase {
				t.Errorf("BaseName(%q) = %q, want %q", tt.name, got, tt.wantBase)
			}
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != 30 {
		t.Fatalf("got %d extensions, want 30", len(exts))
	}
	if exts[0] != "xlsx" || exts[len(exts)-1] != "webm" {
		t.Errorf("unexpected order: first %q last %q", exts[0], exts[len(exts)-1])
	}
}
