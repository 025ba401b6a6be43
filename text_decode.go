package fileconv

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

const utf8BOM = "\uFEFF"

// decodeText decodes data as UTF-8, dropping a leading byte-order mark. Input
// that is not valid UTF-8 goes through charset detection instead.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), utf8BOM)
	}
	return decodeWithDetection(data)
}

// decodeWithDetection tries every charset chardet proposes, best confidence
// first, and keeps the first decoding free of replacement characters.
func decodeWithDetection(data []byte) string {
	detector := chardet.NewTextDetector()
	results, err := detector.DetectAll(data)
	if err == nil {
		for _, r := range results {
			enc := lookupEncoding(r.Charset)
			if enc == nil {
				continue
			}
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				continue
			}
			text := string(decoded)
			if !strings.ContainsRune(text, utf8.RuneError) {
				return strings.TrimPrefix(text, utf8BOM)
			}
		}
	}

	// Fallback: treat as UTF-8, invalid sequences become U+FFFD
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// chardetAliases covers the chardet names htmlindex does not know.
var chardetAliases = map[string]encoding.Encoding{
	"gb-18030":    simplifiedchinese.GB18030,
	"iso-2022-jp": japanese.ISO2022JP,
	"utf-16be":    unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-16le":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
}

// lookupEncoding maps a charset label to an encoding, or nil.
func lookupEncoding(charset string) encoding.Encoding {
	label := strings.ToLower(strings.TrimSpace(charset))
	if enc, ok := chardetAliases[label]; ok {
		return enc
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil
	}
	return enc
}
