package fileconv

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf16"
)

// RTFConverter writes the flat text of any model as a plain RTF document.
type RTFConverter struct{}

// NewRTFConverter creates a new RTFConverter.
func NewRTFConverter() *RTFConverter {
	return &RTFConverter{}
}

func (c *RTFConverter) Convert(ctx context.Context, m ContentModel, job ConvertJob) (*Artifact, error) {
	text, err := flatText(m, ", ")
	if err != nil {
		return nil, conversionFailed(job.Target, KindRenderFailure, "the content could not be flattened to text", err)
	}

	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0\fswiss Helvetica;}}\f0\fs22` + "\n")
	for i, line := range strings.Split(normalizeNewlines(text), "\n") {
		if i > 0 {
			b.WriteString("\\par\n")
		}
		writeRTFText(&b, line)
	}
	b.WriteString("\n}")
	return newArtifact([]byte(b.String()), MIMERTF, job), nil
}

// writeRTFText escapes control characters and writes non-ASCII runes as
// \uN escapes with a "?" fallback.
func writeRTFText(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\tab `)
		case r < 0x20:
		case r < 0x80:
			b.WriteRune(r)
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(b, `\u%d?\u%d?`, int16(hi), int16(lo))
		default:
			fmt.Fprintf(b, `\u%d?`, int16(r))
		}
	}
}
