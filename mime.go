package fileconv

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

// sniffMIME detects the MIME type from content, falling back to the type
// implied by the extension.
func sniffMIME(data []byte, ext string) string {
	if len(data) > 0 {
		if m := mimetype.Detect(data); m.String() != octetStream {
			return m.String()
		}
	}
	return mimeFromExtension(ext)
}

// mimeMismatch reports whether data looks like something other than ext
// claims. Textual formats sniffed as plain text are not a mismatch.
func mimeMismatch(data []byte, ext string) bool {
	expected := mimeFromExtension(ext)
	if expected == octetStream || len(data) == 0 {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(expected) {
			return false
		}
		if m.Is("text/plain") && isTextualMIME(expected) {
			return false
		}
	}
	return true
}

func isTextualMIME(m string) bool {
	if strings.HasPrefix(m, "text/") {
		return true
	}
	switch m {
	case "application/json", "image/svg+xml":
		return true
	}
	return false
}
