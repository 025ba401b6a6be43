package fileconv

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reMarkupTag  = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reCRLF       = regexp.MustCompile(`\r\n?`)
)

// stripMarkup replaces every tag with a space and collapses whitespace runs.
func stripMarkup(s string) string {
	s = reMarkupTag.ReplaceAllString(s, " ")
	return collapseWhitespace(s)
}

// collapseWhitespace reduces every whitespace run to one space and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// normalizeNewlines converts CRLF and lone CR to LF.
func normalizeNewlines(s string) string {
	return reCRLF.ReplaceAllString(s, "\n")
}

// keepLatinPrintable drops every rune outside U+0020-U+007E and U+00A0-U+00FF,
// the range the built-in PDF font can draw.
func keepLatinPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 0x20 && r <= 0x7E) || (r >= 0xA0 && r <= 0xFF) {
			return r
		}
		return -1
	}, s)
}

// charCount counts runes, the unit used for every "character" statistic.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

// recoverInto turns a panic raised by a third-party parser into *err.
func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: recovered from panic: %v", op, r)
	}
}
